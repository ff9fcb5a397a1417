package sunat_test

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gre-api/internal/infrastructure/sunat"
)

func TestFilenames_FormatoSUNAT(t *testing.T) {
	xmlName, zipName := sunat.Filenames("20601514789", "T001", 45)
	assert.Equal(t, "20601514789-09-T001-45.xml", xmlName)
	assert.Equal(t, "20601514789-09-T001-45.zip", zipName)
}

func TestBuildPackage_UnaEntradaYHashDelZip(t *testing.T) {
	contenido := []byte(`<DespatchAdvice>firmado</DespatchAdvice>`)
	pkg, err := sunat.BuildPackage(contenido, "20601514789-09-T001-45.xml", "20601514789-09-T001-45.zip")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(pkg.Base64)
	require.NoError(t, err)
	assert.Equal(t, pkg.Zip, raw)

	sum := sha256.Sum256(raw)
	assert.Equal(t, hex.EncodeToString(sum[:]), pkg.Hash)

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "20601514789-09-T001-45.xml", zr.File[0].Name)
	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, contenido, got)
}

func TestBuildPackage_XMLVacio(t *testing.T) {
	_, err := sunat.BuildPackage(nil, "a.xml", "a.zip")
	require.Error(t, err)
}
