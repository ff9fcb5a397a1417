package gre

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	dgre "github.com/jhoicas/gre-api/internal/domain/gre"
	"github.com/jhoicas/gre-api/internal/domain/repository"
	infrasunat "github.com/jhoicas/gre-api/internal/infrastructure/sunat"
	"github.com/jhoicas/gre-api/pkg/logger"
	"github.com/jhoicas/gre-api/pkg/sunat"
)

// ledgerTimeout plazo del registro local una vez que SUNAT aceptó la guía.
const ledgerTimeout = 15 * time.Second

// SubmitResult guía aceptada por SUNAT y registrada.
type SubmitResult struct {
	Waybill      *entity.Waybill
	Transfer     *entity.StockTransfer
	Ticket       string
	ResponseCode string
	Description  string // DocumentDescription del CDR, si vino
	Verification string
}

// SubmitUseCase orquesta la emisión completa:
//
//	normalizar → validar → XML UBL → firma → ZIP → token → envío → ticket → CDR → registro
//
// Nada se persiste hasta que SUNAT responde aceptación; si el registro local falla después,
// devuelve *domain.LedgerError con el ticket para conciliación manual.
type SubmitUseCase struct {
	waybills repository.WaybillRepository
	builder  Builder
	signer   sunat.Signer
	certs    CertProvider
	client   AuthorityClient
	archive  DocumentArchive
	ledger   *LedgerCoordinator
	issuer   Issuer
	log      *logger.Logger
}

// NewSubmitUseCase construye el caso de uso inyectando todas sus dependencias.
func NewSubmitUseCase(
	waybills repository.WaybillRepository,
	builder Builder,
	signer sunat.Signer,
	certs CertProvider,
	client AuthorityClient,
	archive DocumentArchive,
	ledger *LedgerCoordinator,
	issuer Issuer,
	log *logger.Logger,
) *SubmitUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if archive == nil {
		archive = nopArchive{}
	}
	return &SubmitUseCase{
		waybills: waybills,
		builder:  builder,
		signer:   signer,
		certs:    certs,
		client:   client,
		archive:  archive,
		ledger:   ledger,
		issuer:   issuer,
		log:      log.Named("gre.submit"),
	}
}

// Submit emite la guía. Errores: *domain.ValidationError, *domain.ConflictError,
// *domain.SigningError, *domain.AuthError, *domain.SubmitError, *domain.TimeoutError,
// *domain.RejectedError y *domain.LedgerError.
func (uc *SubmitUseCase) Submit(ctx context.Context, actor Actor, w *entity.Waybill) (*SubmitResult, error) {
	dgre.Normalize(w)
	if err := dgre.Validate(w); err != nil {
		return nil, err
	}
	log := uc.log.ForWaybill(w.Series, w.Number)

	exists, err := uc.waybills.ExistsBySeriesNumber(ctx, w.Series, w.Number)
	if err != nil {
		return nil, fmt.Errorf("verificar correlativo: %w", err)
	}
	if exists {
		return nil, &domain.ConflictError{Msg: fmt.Sprintf("la guía %s ya fue emitida", w.FullNumber())}
	}

	// ── 1. XML + firma ────────────────────────────────────────────────────────
	unsigned, err := uc.builder.Build(&infrasunat.BuildContext{
		Waybill:    w,
		IssuerRUC:  uc.issuer.RUC,
		IssuerName: uc.issuer.Name,
	})
	if err != nil {
		return nil, &domain.ValidationError{Err: err}
	}
	cert, err := uc.certs.Certificate()
	if err != nil {
		return nil, &domain.SigningError{Err: err}
	}
	signed, err := uc.signer.Sign(unsigned, cert)
	if err != nil {
		return nil, &domain.SigningError{Err: err}
	}
	digest, err := infrasunat.ExtractDigestValue(signed)
	if err != nil {
		return nil, &domain.SigningError{Err: err}
	}

	// ── 2. Paquete ────────────────────────────────────────────────────────────
	xmlName, zipName := infrasunat.Filenames(uc.issuer.RUC, w.Series, w.Number)
	pkg, err := infrasunat.BuildPackage(signed, xmlName, zipName)
	if err != nil {
		return nil, fmt.Errorf("empaquetar guía: %w", err)
	}
	if err := uc.archive.SaveSignedXML(ctx, xmlName, signed); err != nil {
		log.Warn().Err(err).Str("archivo", xmlName).Msg("no se pudo archivar el XML firmado")
	}

	// ── 3. SUNAT ──────────────────────────────────────────────────────────────
	token, err := uc.client.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	ticket, err := uc.client.Submit(ctx, token, pkg)
	if err != nil {
		return nil, err
	}
	log = log.With().Str("ticket", ticket).Logger()
	log.Info().Str("hash", pkg.Hash).Msg("guía enviada; consultando ticket")

	status, err := uc.client.PollStatus(ctx, token, ticket)
	if err != nil {
		var rejected *domain.RejectedError
		if errors.As(err, &rejected) && status != nil {
			uc.saveCDR(ctx, log, zipName, status.CDR)
		}
		log.Warn().Err(err).Msg("ticket sin aceptación")
		return nil, err
	}

	// ── 4. CDR y dato de verificación ─────────────────────────────────────────
	uc.saveCDR(ctx, log, zipName, status.CDR)
	description := ""
	if status.CDR != "" {
		if description, err = infrasunat.ParseReceipt(status.CDR); err != nil {
			log.Warn().Err(err).Msg("CDR ilegible; se usa el DigestValue local")
			description = ""
		}
	}
	verification := digest
	if isURL(description) {
		verification = description
	}

	// ── 5. Registro local (la guía ya es válida ante SUNAT) ───────────────────
	w.Ticket = ticket
	w.VerificationRef = verification

	ledgerCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerTimeout)
	defer cancel()
	transfer, err := uc.ledger.Commit(ledgerCtx, w, actor)
	if err != nil {
		log.Error().Err(err).
			Str("codigo_respuesta", status.Code).
			Str("verificacion", verification).
			Str("descripcion", description).
			Msg("guía ACEPTADA por SUNAT pero no registrada: conciliar manualmente")
		return nil, &domain.LedgerError{
			Ticket:       ticket,
			ResponseCode: status.Code,
			Verification: verification,
			Err:          err,
		}
	}

	log.Info().Str("verificacion", verification).Msg("guía aceptada y registrada")
	return &SubmitResult{
		Waybill:      w,
		Transfer:     transfer,
		Ticket:       ticket,
		ResponseCode: status.Code,
		Description:  description,
		Verification: verification,
	}, nil
}

func (uc *SubmitUseCase) saveCDR(ctx context.Context, log zerolog.Logger, zipName, cdrBase64 string) {
	if cdrBase64 == "" {
		return
	}
	data, err := base64.StdEncoding.DecodeString(cdrBase64)
	if err != nil {
		log.Warn().Err(err).Msg("CDR con Base64 inválido; no se archiva")
		return
	}
	if err := uc.archive.SaveCDR(ctx, zipName, data); err != nil {
		log.Warn().Err(err).Msg("no se pudo archivar el CDR")
	}
}

func isURL(s string) bool {
	s = strings.ToLower(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

type nopArchive struct{}

func (nopArchive) SaveSignedXML(context.Context, string, []byte) error { return nil }
func (nopArchive) SaveCDR(context.Context, string, []byte) error       { return nil }
