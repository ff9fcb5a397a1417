package sunat_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/infrastructure/sunat"
)

// ─────────────────────────────────────────────────────────────────────────────
// Servidor SUNAT falso
// ─────────────────────────────────────────────────────────────────────────────

type sunatFalso struct {
	t          *testing.T
	tokenCalls int32
	pollCalls  int32
	tokenCode  int
	ticket     string
	respuestas []func(w http.ResponseWriter) // una por consulta; la última se repite
	lastSubmit map[string]map[string]string
	lastForm   url.Values
	submitPath string
	mu         sync.Mutex
}

func (f *sunatFalso) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/clientessol/cli-123/oauth2/token/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokenCalls, 1)
		require.NoError(f.t, r.ParseForm())
		f.mu.Lock()
		f.lastForm = r.PostForm
		f.mu.Unlock()
		if f.tokenCode != 0 && f.tokenCode != http.StatusOK {
			w.WriteHeader(f.tokenCode)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-abc", "token_type": "JWT", "expires_in": 3600})
	})
	mux.HandleFunc("/v1/contribuyente/gem/comprobantes/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, "Bearer tok-abc", r.Header.Get("Authorization"))
		var body map[string]map[string]string
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.lastSubmit = body
		f.submitPath = r.URL.Path
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"numTicket": f.ticket})
	})
	mux.HandleFunc("/v1/contribuyente/gem/comprobantes/envios/", func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&f.pollCalls, 1)) - 1
		if n >= len(f.respuestas) {
			n = len(f.respuestas) - 1
		}
		f.respuestas[n](w)
	})
	return mux
}

func codigo(cod string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(map[string]any{"codRespuesta": cod})
	}
}

func rechazo(cod, num, des string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"codRespuesta": cod,
			"error":        map[string]string{"numError": num, "desError": des},
		})
	}
}

func demasiadoPronto(w http.ResponseWriter) {
	w.WriteHeader(http.StatusTooManyRequests)
}

func nuevoCliente(t *testing.T, f *sunatFalso, attempts int, timeout time.Duration, cache sunat.TokenCache) *sunat.Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return sunat.NewClient(sunat.ClientConfig{
		SecurityURL:  srv.URL + "/v1",
		APIURL:       srv.URL + "/v1",
		ClientID:     "cli-123",
		ClientSecret: "secreto",
		RUC:          "20601514789",
		SOLUser:      "MODDATOS",
		SOLPassword:  "moddatos",
		PollAttempts: attempts,
		PollDelay:    5 * time.Millisecond,
		PollTimeout:  timeout,
	}, cache, nil)
}

type cacheMapa struct {
	mu   sync.Mutex
	data map[string]string
	ttl  time.Duration
}

func (c *cacheMapa) Get(_ context.Context, k string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[k]
	return v, ok, nil
}

func (c *cacheMapa) Set(_ context.Context, k, v string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string]string{}
	}
	c.data[k] = v
	c.ttl = ttl
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Autenticación
// ─────────────────────────────────────────────────────────────────────────────

func TestAuthenticate_EnviaCredencialesYCachea(t *testing.T) {
	f := &sunatFalso{t: t}
	cache := &cacheMapa{}
	c := nuevoCliente(t, f, 3, time.Second, cache)

	tok, err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)
	assert.Equal(t, "password", f.lastForm.Get("grant_type"))
	assert.Equal(t, "20601514789MODDATOS", f.lastForm.Get("username"))
	assert.Equal(t, "https://api.sunat.gob.pe/v1/contribuyente/contribuyentes", f.lastForm.Get("scope"))
	assert.Equal(t, "sunat:token:cli-123", firstKey(cache))
	assert.Greater(t, cache.ttl, time.Duration(0))

	_, err = c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.tokenCalls), "el segundo llamado usa la caché")
}

func TestAuthenticate_CredencialesRechazadas(t *testing.T) {
	f := &sunatFalso{t: t, tokenCode: http.StatusUnauthorized}
	c := nuevoCliente(t, f, 3, time.Second, nil)

	_, err := c.Authenticate(context.Background())
	var aerr *domain.AuthError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, http.StatusUnauthorized, aerr.Status)
	assert.True(t, errors.Is(err, domain.ErrAuthority))
}

// ─────────────────────────────────────────────────────────────────────────────
// Envío
// ─────────────────────────────────────────────────────────────────────────────

func TestSubmit_DevuelveTicket(t *testing.T) {
	f := &sunatFalso{t: t, ticket: "TCK-1"}
	c := nuevoCliente(t, f, 3, time.Second, nil)
	pkg, err := sunat.BuildPackage([]byte("<x/>"), "20601514789-09-T001-45.xml", "20601514789-09-T001-45.zip")
	require.NoError(t, err)

	ticket, err := c.Submit(context.Background(), "tok-abc", pkg)
	require.NoError(t, err)
	assert.Equal(t, "TCK-1", ticket)
	assert.Equal(t, "/v1/contribuyente/gem/comprobantes/20601514789-09-T001-45", f.submitPath)
	assert.Equal(t, "20601514789-09-T001-45.zip", f.lastSubmit["archivo"]["nomArchivo"])
	assert.Equal(t, pkg.Hash, f.lastSubmit["archivo"]["hashZip"])
	assert.Equal(t, pkg.Base64, f.lastSubmit["archivo"]["arcGreZip"])
}

func TestSubmit_SinTicketEsSubmitError(t *testing.T) {
	f := &sunatFalso{t: t, ticket: ""}
	c := nuevoCliente(t, f, 3, time.Second, nil)
	pkg, err := sunat.BuildPackage([]byte("<x/>"), "a.xml", "a.zip")
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), "tok-abc", pkg)
	var serr *domain.SubmitError
	require.True(t, errors.As(err, &serr))
}

// ─────────────────────────────────────────────────────────────────────────────
// Consulta de ticket
// ─────────────────────────────────────────────────────────────────────────────

func TestPollStatus_EnProcesoLuegoAceptado(t *testing.T) {
	f := &sunatFalso{t: t, respuestas: []func(http.ResponseWriter){codigo("98"), codigo("98"), codigo("0")}}
	c := nuevoCliente(t, f, 3, time.Second, nil)

	st, err := c.PollStatus(context.Background(), "tok-abc", "TCK-1")
	require.NoError(t, err)
	assert.True(t, st.Accepted())
	assert.Equal(t, 3, st.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&f.pollCalls))
}

func TestPollStatus_ConsultaPrematuraSeReintenta(t *testing.T) {
	f := &sunatFalso{t: t, respuestas: []func(http.ResponseWriter){demasiadoPronto, demasiadoPronto, codigo("0")}}
	c := nuevoCliente(t, f, 3, time.Second, nil)

	st, err := c.PollStatus(context.Background(), "tok-abc", "TCK-1")
	require.NoError(t, err)
	assert.Equal(t, "0", st.Code)
}

func TestPollStatus_AgotaIntentos(t *testing.T) {
	f := &sunatFalso{t: t, respuestas: []func(http.ResponseWriter){codigo("98")}}
	c := nuevoCliente(t, f, 3, time.Second, nil)

	_, err := c.PollStatus(context.Background(), "tok-abc", "TCK-9")
	var terr *domain.TimeoutError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "TCK-9", terr.Ticket)
	assert.Equal(t, 3, terr.Attempts)
	assert.Equal(t, "98", terr.LastCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&f.pollCalls), "no hay consultas extra tras agotar intentos")
}

func TestPollStatus_PresupuestoDeTiempo(t *testing.T) {
	f := &sunatFalso{t: t, respuestas: []func(http.ResponseWriter){codigo("98")}}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	c := sunat.NewClient(sunat.ClientConfig{
		APIURL:       srv.URL + "/v1",
		PollAttempts: 100,
		PollDelay:    50 * time.Millisecond,
		PollTimeout:  120 * time.Millisecond,
	}, nil, nil)

	_, err := c.PollStatus(context.Background(), "tok-abc", "TCK-2")
	require.True(t, errors.Is(err, domain.ErrTimeout))
	assert.Less(t, atomic.LoadInt32(&f.pollCalls), int32(100))
}

func TestPollStatus_CancelacionDelLlamador(t *testing.T) {
	f := &sunatFalso{t: t, respuestas: []func(http.ResponseWriter){codigo("98")}}
	c := nuevoCliente(t, f, 3, time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.PollStatus(ctx, "tok-abc", "TCK-3")
	assert.ErrorIs(t, err, context.Canceled)
	var terr *domain.TimeoutError
	require.True(t, errors.As(err, &terr), "el ticket debe llegar al operador para volver a consultar")
	assert.Equal(t, "TCK-3", terr.Ticket)
}

func paginaMantenimiento(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte("<html>mantenimiento</html>"))
}

func TestPollStatus_RespuestaNoJSONSeReintenta(t *testing.T) {
	f := &sunatFalso{t: t, respuestas: []func(http.ResponseWriter){paginaMantenimiento, codigo("0")}}
	c := nuevoCliente(t, f, 3, time.Second, nil)

	st, err := c.PollStatus(context.Background(), "tok-abc", "TCK-6")
	require.NoError(t, err)
	assert.True(t, st.Accepted())
	assert.Equal(t, 2, st.Attempts)
}

func TestPollStatus_RespuestaNoJSONPersistenteEsTimeout(t *testing.T) {
	f := &sunatFalso{t: t, respuestas: []func(http.ResponseWriter){paginaMantenimiento}}
	c := nuevoCliente(t, f, 3, time.Second, nil)

	_, err := c.PollStatus(context.Background(), "tok-abc", "TCK-7")
	var terr *domain.TimeoutError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "TCK-7", terr.Ticket)
	assert.Equal(t, 3, terr.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&f.pollCalls))
}

func TestPollStatus_Rechazo(t *testing.T) {
	f := &sunatFalso{t: t, respuestas: []func(http.ResponseWriter){rechazo("99", "2800", "El RUC del destinatario no existe")}}
	c := nuevoCliente(t, f, 3, time.Second, nil)

	st, err := c.PollStatus(context.Background(), "tok-abc", "TCK-4")
	var rerr *domain.RejectedError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "99", rerr.Code)
	assert.Contains(t, rerr.Message, "2800")
	require.NotNil(t, st)
	assert.Equal(t, "El RUC del destinatario no existe", st.ErrorMessage)
}

func TestPollStatus_CodigoReintentableConfigurado(t *testing.T) {
	f := &sunatFalso{t: t, respuestas: []func(http.ResponseWriter){codigo("1033"), codigo("0")}}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	c := sunat.NewClient(sunat.ClientConfig{
		APIURL:       srv.URL + "/v1",
		PollAttempts: 3,
		PollDelay:    time.Millisecond,
		PollTimeout:  time.Second,
		RetryCodes:   []string{"1033"},
	}, nil, nil)

	st, err := c.PollStatus(context.Background(), "tok-abc", "TCK-5")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Attempts)
}

func TestDevClient_AceptaSinRed(t *testing.T) {
	d := sunat.NewDevClient(nil)
	pkg, err := sunat.BuildPackage([]byte("<x/>"), "a.xml", "a.zip")
	require.NoError(t, err)
	ticket, err := d.Submit(context.Background(), "", pkg)
	require.NoError(t, err)
	assert.Equal(t, sunat.MockTicket, ticket)
	st, err := d.PollStatus(context.Background(), "", ticket)
	require.NoError(t, err)
	assert.True(t, st.Accepted())
}

func firstKey(c *cacheMapa) string {
	for k := range c.data {
		return k
	}
	return ""
}
