package sunat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/pkg/logger"
	"github.com/jhoicas/gre-api/pkg/sunat"
)

// ── Constantes ──────────────────────────────────────────────────────────────

const (
	tokenScope      = "https://api.sunat.gob.pe/v1/contribuyente/contribuyentes"
	tokenCacheKey   = "sunat:token:"
	tokenSafety     = 60 * time.Second // margen antes del vencimiento real
	maxResponseBody = 1 << 20
)

// TokenCache almacena el token OAuth2 entre peticiones (Redis o memoria del proceso).
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ClientConfig parámetros del cliente REST de GRE.
type ClientConfig struct {
	SecurityURL  string
	APIURL       string
	ClientID     string
	ClientSecret string
	RUC          string
	SOLUser      string
	SOLPassword  string
	PollAttempts int
	PollDelay    time.Duration
	PollTimeout  time.Duration
	RetryCodes   []string // reintentables además de "98"
}

// TicketStatus respuesta terminal de la consulta del ticket.
type TicketStatus struct {
	Ticket       string
	Code         string // codRespuesta
	CDR          string // arcCdr (ZIP en Base64)
	ErrorCode    string
	ErrorMessage string
	Attempts     int
}

// Accepted indica si SUNAT aceptó el comprobante.
func (s *TicketStatus) Accepted() bool { return s.Code == sunat.TicketAccepted }

// Client cliente de la API REST de SUNAT para GRE.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	tokens     TokenCache
	log        *logger.Logger
}

// NewClient crea el cliente. tokens puede ser nil (sin caché).
func NewClient(cfg ClientConfig, tokens TokenCache, log *logger.Logger) *Client {
	if cfg.PollAttempts < 1 {
		cfg.PollAttempts = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		tokens:     tokens,
		log:        log.Named("sunat.client"),
	}
}

// WithHTTPClient reemplaza el http.Client (pruebas).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

// ── Autenticación ───────────────────────────────────────────────────────────

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Authenticate obtiene el token OAuth2 (grant password). Reutiliza el cacheado si sigue vigente.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	key := tokenCacheKey + c.cfg.ClientID
	if c.tokens != nil {
		if tok, ok, err := c.tokens.Get(ctx, key); err == nil && ok {
			return tok, nil
		} else if err != nil {
			c.log.Warn().Err(err).Msg("caché de token no disponible; se solicita uno nuevo")
		}
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("scope", tokenScope)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("username", c.cfg.RUC+c.cfg.SOLUser)
	form.Set("password", c.cfg.SOLPassword)

	endpoint := strings.TrimRight(c.cfg.SecurityURL, "/") + "/clientessol/" + url.PathEscape(c.cfg.ClientID) + "/oauth2/token/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &domain.AuthError{Err: fmt.Errorf("crear request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body, err := c.do(req)
	if err != nil {
		return "", &domain.AuthError{Err: err}
	}
	if status != http.StatusOK {
		return "", &domain.AuthError{Status: status, Err: fmt.Errorf("respuesta: %s", truncate(body))}
	}
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &domain.AuthError{Status: status, Err: fmt.Errorf("decodificar token: %w", err)}
	}
	if tr.AccessToken == "" {
		return "", &domain.AuthError{Status: status, Err: errors.New("respuesta sin access_token")}
	}

	if c.tokens != nil && tr.ExpiresIn > 0 {
		ttl := time.Duration(tr.ExpiresIn)*time.Second - tokenSafety
		if ttl > 0 {
			if err := c.tokens.Set(ctx, key, tr.AccessToken, ttl); err != nil {
				c.log.Warn().Err(err).Msg("no se pudo cachear el token")
			}
		}
	}
	return tr.AccessToken, nil
}

// ── Envío ───────────────────────────────────────────────────────────────────

type submitRequest struct {
	Archivo submitFile `json:"archivo"`
}

type submitFile struct {
	NomArchivo string `json:"nomArchivo"`
	ArcGreZip  string `json:"arcGreZip"`
	HashZip    string `json:"hashZip"`
}

type submitResponse struct {
	NumTicket    string `json:"numTicket"`
	FecRecepcion string `json:"fecRecepcion"`
}

// Submit envía el paquete y devuelve el ticket. Sin ticket → SubmitError (no se reintenta).
func (c *Client) Submit(ctx context.Context, token string, pkg *Package) (string, error) {
	if pkg == nil {
		return "", &domain.SubmitError{Err: errors.New("paquete vacío")}
	}
	payload, err := json.Marshal(submitRequest{Archivo: submitFile{
		NomArchivo: pkg.ZipName,
		ArcGreZip:  pkg.Base64,
		HashZip:    pkg.Hash,
	}})
	if err != nil {
		return "", &domain.SubmitError{Err: fmt.Errorf("serializar envío: %w", err)}
	}
	name := strings.TrimSuffix(pkg.ZipName, ".zip")
	endpoint := strings.TrimRight(c.cfg.APIURL, "/") + "/contribuyente/gem/comprobantes/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &domain.SubmitError{Err: fmt.Errorf("crear request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return "", &domain.SubmitError{Err: err}
	}
	if status != http.StatusOK {
		return "", &domain.SubmitError{Status: status, Body: truncate(body), Err: fmt.Errorf("HTTP %d", status)}
	}
	var sr submitResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", &domain.SubmitError{Status: status, Body: truncate(body), Err: fmt.Errorf("decodificar respuesta: %w", err)}
	}
	if sr.NumTicket == "" {
		return "", &domain.SubmitError{Status: status, Body: truncate(body), Err: errors.New("SUNAT no devolvió ticket")}
	}
	c.log.Info().Str("archivo", pkg.ZipName).Str("ticket", sr.NumTicket).Msg("guía enviada")
	return sr.NumTicket, nil
}

// ── Consulta de ticket ──────────────────────────────────────────────────────

type ticketResponse struct {
	CodRespuesta   string `json:"codRespuesta"`
	ArcCdr         string `json:"arcCdr"`
	IndCdrGenerado string `json:"indCdrGenerado"`
	Error          *struct {
		NumError string `json:"numError"`
		DesError string `json:"desError"`
	} `json:"error"`
}

// PollStatus consulta el ticket hasta una respuesta terminal. Cada intento espera PollDelay
// (limitador de tasa) y todo el sondeo corre bajo PollTimeout. "98", HTTP 429 y los
// RetryCodes configurados se reintentan; "0" es aceptación y cualquier otro código es rechazo.
func (c *Client) PollStatus(ctx context.Context, token, ticket string) (*TicketStatus, error) {
	pollCtx, cancel := context.WithTimeout(ctx, c.cfg.PollTimeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(c.cfg.PollDelay), 1)
	limiter.Allow() // la primera consulta también espera: SUNAT no procesa al instante

	endpoint := strings.TrimRight(c.cfg.APIURL, "/") + "/contribuyente/gem/comprobantes/envios/" + url.PathEscape(ticket)
	lastCode := ""
	for attempt := 1; attempt <= c.cfg.PollAttempts; attempt++ {
		if err := limiter.Wait(pollCtx); err != nil {
			if ctx.Err() != nil {
				return nil, &domain.TimeoutError{Ticket: ticket, Attempts: attempt - 1, LastCode: lastCode, Cause: ctx.Err()}
			}
			return nil, &domain.TimeoutError{Ticket: ticket, Attempts: attempt - 1, LastCode: lastCode}
		}

		req, err := http.NewRequestWithContext(pollCtx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("sunat: crear request de consulta: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		status, body, err := c.do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &domain.TimeoutError{Ticket: ticket, Attempts: attempt, LastCode: lastCode, Cause: ctx.Err()}
			}
			if pollCtx.Err() != nil {
				return nil, &domain.TimeoutError{Ticket: ticket, Attempts: attempt, LastCode: lastCode}
			}
			c.log.Warn().Err(err).Str("ticket", ticket).Int("intento", attempt).Msg("error de red consultando ticket")
			continue
		}
		if status == http.StatusTooManyRequests {
			lastCode = "429"
			c.log.Debug().Str("ticket", ticket).Int("intento", attempt).Msg("consulta prematura (429)")
			continue
		}
		if status != http.StatusOK {
			lastCode = fmt.Sprintf("HTTP %d", status)
			c.log.Warn().Str("ticket", ticket).Int("status", status).Str("body", truncate(body)).Msg("respuesta inesperada consultando ticket")
			continue
		}

		var tr ticketResponse
		if err := json.Unmarshal(body, &tr); err != nil {
			lastCode = "respuesta ilegible"
			c.log.Warn().Err(err).Str("ticket", ticket).Int("intento", attempt).Str("body", truncate(body)).
				Msg("consulta de ticket no es JSON")
			continue
		}
		lastCode = tr.CodRespuesta
		if c.retryable(tr.CodRespuesta) {
			c.log.Debug().Str("ticket", ticket).Str("codigo", tr.CodRespuesta).Int("intento", attempt).Msg("ticket en proceso")
			continue
		}

		st := &TicketStatus{Ticket: ticket, Code: tr.CodRespuesta, CDR: tr.ArcCdr, Attempts: attempt}
		if tr.Error != nil {
			st.ErrorCode = tr.Error.NumError
			st.ErrorMessage = tr.Error.DesError
		}
		if st.Accepted() {
			return st, nil
		}
		msg := st.ErrorMessage
		if st.ErrorCode != "" {
			msg = st.ErrorCode + " - " + msg
		}
		return st, &domain.RejectedError{Ticket: ticket, Code: tr.CodRespuesta, Message: msg}
	}
	return nil, &domain.TimeoutError{Ticket: ticket, Attempts: c.cfg.PollAttempts, LastCode: lastCode}
}

func (c *Client) retryable(code string) bool {
	if code == sunat.TicketProcessing {
		return true
	}
	for _, rc := range c.cfg.RetryCodes {
		if rc == code {
			return true
		}
	}
	return false
}

// ── helpers privados ────────────────────────────────────────────────────────

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("sunat: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("sunat: leer respuesta: %w", err)
	}
	return resp.StatusCode, body, nil
}

func truncate(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "…"
	}
	return string(b)
}
