package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseUbigeoCSV_ConCabeceraYPuntoYComa(t *testing.T) {
	in := "UBIGEO;DEPARTAMENTO;PROVINCIA;DISTRITO\n" +
		"150101;Lima;Lima;Lima\n" +
		"40101;Arequipa;Arequipa;  Arequipa \n"

	items, err := ParseUbigeoCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "150101", items[0].Code)
	assert.Equal(t, "LIMA - LIMA - LIMA", items[0].Display())
	assert.Equal(t, "040101", items[1].Code, "se completa el cero que quita Excel")
	assert.Equal(t, "AREQUIPA", items[1].Distrito)
}

func TestParseUbigeoCSV_Latin1(t *testing.T) {
	utf := "080101,Cusco,Cusco,Cusco\n250301,Ucayali,Padre Abad,Irázola\n"
	latin, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	items, err := ParseUbigeoCSV(strings.NewReader(latin))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "IRÁZOLA", items[1].Distrito)
}

func TestParseUbigeoCSV_BOMyDuplicados(t *testing.T) {
	in := "\xef\xbb\xbf150101,Lima,Lima,Lima\n150101,Lima,Lima,Cercado de Lima\n\n"

	items, err := ParseUbigeoCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "CERCADO DE LIMA", items[0].Distrito, "la última fila gana")
}

func TestParseUbigeoCSV_Errores(t *testing.T) {
	cases := map[string]string{
		"vacío":          "",
		"solo cabecera":  "codigo,departamento,provincia,distrito\n",
		"pocas columnas": "150101,Lima,Lima\n",
		"código largo":   "1501011,Lima,Lima,Lima\n",
		"código letras":  "150101,Lima,Lima,Lima\nABC,Lima,Lima,Lima\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseUbigeoCSV(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}
