package cli

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/gre-api/internal/infrastructure/sunat/signer"
)

var (
	certPathFlag string
	keyPathFlag  string
	passwordFlag string
)

var checkCertCmd = &cobra.Command{
	Use:   "check-cert",
	Short: "Diagnostica el certificado de firma (PKCS#12 o PEM)",
	Long: `Carga el certificado con el mismo cargador que usa la API y muestra titular,
emisor, vigencia y si corresponde al RUC configurado.

Sin flags usa SUNAT_CERT_PATH, SUNAT_CERT_KEY_PATH y SUNAT_CERT_PASSWORD.`,
	RunE: runCheckCert,
}

func init() {
	checkCertCmd.Flags().StringVar(&certPathFlag, "cert", "", "ruta del .p12/.pfx o certificado PEM")
	checkCertCmd.Flags().StringVar(&keyPathFlag, "key", "", "ruta de la llave PEM (si va separada)")
	checkCertCmd.Flags().StringVar(&passwordFlag, "password", "", "contraseña del PKCS#12")
}

func runCheckCert(cmd *cobra.Command, args []string) error {
	path := firstNonEmpty(certPathFlag, cfg.SUNAT.CertPath)
	key := firstNonEmpty(keyPathFlag, cfg.SUNAT.CertKeyPath)
	pass := firstNonEmpty(passwordFlag, cfg.SUNAT.CertPassword)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Certificado: %s\n", path)
	cert, err := signer.Load(path, key, pass)
	if err != nil {
		fmt.Fprintf(out, "ERROR: %v\n", err)
		return err
	}
	report, err := DescribeCertificate(cert, cfg.SUNAT.RUC, time.Now())
	if err != nil {
		fmt.Fprintf(out, "ERROR: %v\n", err)
		return err
	}
	report.Write(out)
	if problems := report.Problems(); len(problems) > 0 {
		return fmt.Errorf("certificado no apto: %s", strings.Join(problems, "; "))
	}
	return nil
}

// CertReport resumen del certificado de firma.
type CertReport struct {
	Subject    string
	Issuer     string
	Serial     string
	KeyType    string
	NotBefore  time.Time
	NotAfter   time.Time
	DaysLeft   int
	RUC        string
	RUCMatches bool
	KeyMatches bool
	NotYet     bool
	Expired    bool
}

// DescribeCertificate analiza el certificado hoja. ruc vacío omite la comparación.
func DescribeCertificate(cert tls.Certificate, ruc string, now time.Time) (*CertReport, error) {
	leaf := cert.Leaf
	if leaf == nil {
		if len(cert.Certificate) == 0 {
			return nil, fmt.Errorf("el archivo no contiene certificados")
		}
		var err error
		leaf, err = x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return nil, fmt.Errorf("certificado ilegible: %w", err)
		}
	}
	r := &CertReport{
		Subject:    leaf.Subject.String(),
		Issuer:     leaf.Issuer.String(),
		Serial:     leaf.SerialNumber.String(),
		KeyType:    keyType(leaf.PublicKey),
		NotBefore:  leaf.NotBefore,
		NotAfter:   leaf.NotAfter,
		DaysLeft:   int(leaf.NotAfter.Sub(now).Hours() / 24),
		RUC:        ruc,
		KeyMatches: publicKeyMatches(cert.PrivateKey, leaf.PublicKey),
		NotYet:     now.Before(leaf.NotBefore),
		Expired:    now.After(leaf.NotAfter),
	}
	if ruc != "" {
		r.RUCMatches = strings.Contains(r.Subject, ruc)
	}
	return r, nil
}

// Problems hallazgos que impiden firmar guías válidas.
func (r *CertReport) Problems() []string {
	var out []string
	if r.Expired {
		out = append(out, "vencido")
	}
	if r.NotYet {
		out = append(out, "aún no vigente")
	}
	if !r.KeyMatches {
		out = append(out, "la llave privada no corresponde al certificado")
	}
	return out
}

// Write imprime el reporte legible.
func (r *CertReport) Write(w io.Writer) {
	fmt.Fprintf(w, "Titular:     %s\n", r.Subject)
	fmt.Fprintf(w, "Emisor:      %s\n", r.Issuer)
	fmt.Fprintf(w, "Serie:       %s\n", r.Serial)
	fmt.Fprintf(w, "Llave:       %s\n", r.KeyType)
	fmt.Fprintf(w, "Vigencia:    %s → %s (%d días restantes)\n",
		r.NotBefore.Format("2006-01-02"), r.NotAfter.Format("2006-01-02"), r.DaysLeft)
	if r.RUC != "" {
		if r.RUCMatches {
			fmt.Fprintf(w, "RUC %s:  presente en el titular\n", r.RUC)
		} else {
			fmt.Fprintf(w, "AVISO: el RUC %s no aparece en el titular\n", r.RUC)
		}
	}
	for _, p := range r.Problems() {
		fmt.Fprintf(w, "ERROR: %s\n", p)
	}
	if len(r.Problems()) == 0 {
		fmt.Fprintln(w, "OK: el certificado puede firmar guías")
	}
}

func keyType(pub crypto.PublicKey) string {
	switch k := pub.(type) {
	case *rsa.PublicKey:
		return fmt.Sprintf("RSA %d bits", k.N.BitLen())
	case *ecdsa.PublicKey:
		return "ECDSA " + k.Curve.Params().Name
	}
	return fmt.Sprintf("%T", pub)
}

func publicKeyMatches(priv crypto.PrivateKey, pub crypto.PublicKey) bool {
	type equaler interface {
		Equal(x crypto.PublicKey) bool
	}
	s, ok := priv.(crypto.Signer)
	if !ok {
		return false
	}
	eq, ok := s.Public().(equaler)
	return ok && eq.Equal(pub)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
