package entity

// UnitMeasure unidad de medida con su código SUNAT y el símbolo que se imprime.
type UnitMeasure struct {
	ID        string
	Name      string
	Symbol    string // ej. UND
	SunatCode string // ej. NIU
}
