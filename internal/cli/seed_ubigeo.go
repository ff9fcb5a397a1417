package cli

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/internal/infrastructure/postgres"
)

var seedUbigeoCmd = &cobra.Command{
	Use:   "seed-ubigeo <archivo.csv>",
	Short: "Carga el catálogo INEI de ubigeos (distritos)",
	Long: `Carga o actualiza la tabla de ubigeos desde un CSV con columnas
codigo, departamento, provincia, distrito (separador "," o ";").

Acepta archivos UTF-8 o Latin-1 (exportación típica de Excel). La primera fila
se omite si no empieza con un código numérico.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeedUbigeo,
}

func runSeedUbigeo(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("leer CSV: %w", err)
	}
	items, err := ParseUbigeoCSV(bytes.NewReader(raw))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	n, err := postgres.NewUbigeoRepository(pool).UpsertBatch(ctx, items)
	if err != nil {
		return fmt.Errorf("guardar ubigeos: %w", err)
	}
	appLogger.Info().Str("archivo", args[0]).Int("leidos", len(items)).Int("guardados", n).Msg("ubigeos cargados")
	return nil
}

// ParseUbigeoCSV lee el catálogo. Códigos con menos de 6 dígitos (Excel quita el cero inicial)
// se completan con ceros; nombres se guardan en mayúsculas.
func ParseUbigeoCSV(r io.Reader) ([]entity.Ubigeo, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = detectComma(raw)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV inválido: %w", err)
	}

	seen := make(map[string]int, len(records))
	var out []entity.Ubigeo
	for i, rec := range records {
		if len(rec) < 4 {
			if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
				continue
			}
			return nil, fmt.Errorf("fila %d: se esperaban 4 columnas, hay %d", i+1, len(rec))
		}
		code := strings.TrimSpace(rec[0])
		if !isDigits(code) {
			if i == 0 {
				continue // cabecera
			}
			return nil, fmt.Errorf("fila %d: código %q no numérico", i+1, code)
		}
		if len(code) > 6 {
			return nil, fmt.Errorf("fila %d: código %q excede 6 dígitos", i+1, code)
		}
		code = strings.Repeat("0", 6-len(code)) + code
		u := entity.Ubigeo{
			Code:         code,
			Departamento: upper(rec[1]),
			Provincia:    upper(rec[2]),
			Distrito:     upper(rec[3]),
		}
		// la última fila gana, igual que el upsert
		if pos, ok := seen[code]; ok {
			out[pos] = u
			continue
		}
		seen[code] = len(out)
		out = append(out, u)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("CSV sin filas de ubigeo")
	}
	return out, nil
}

func detectComma(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func upper(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
