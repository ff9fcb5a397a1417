package entity

// Ubigeo código geográfico INEI de distrito.
type Ubigeo struct {
	Code         string // 6 dígitos
	Departamento string
	Provincia    string
	Distrito     string
}

// Display "DEPARTAMENTO - PROVINCIA - DISTRITO".
func (u *Ubigeo) Display() string {
	return u.Departamento + " - " + u.Provincia + " - " + u.Distrito
}
