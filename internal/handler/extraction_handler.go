package handler

import (
	"encoding/json"
	"net/http"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxUploadSize bounds spreadsheet uploads. Real DREs are a few
// hundred kilobytes; anything near this limit is not a statement.
const maxUploadSize = 10 << 20

// ============================================================
// 3. Extração de Demonstrativos
// ============================================================

func extractTextHandler(extractSvc *service.ExtractionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/extract/text")
		defer span.End()

		var req domain.ExtractTextRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := extractSvc.ExtractText(ctx, req.Text)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func extractFileHandler(extractSvc *service.ExtractionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/extract/file")
		defer span.End()

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Campo 'file' é obrigatório")
			return
		}
		defer file.Close()
		span.SetAttributes(attribute.String("upload.filename", header.Filename))

		resp, err := extractSvc.ExtractFile(ctx, header.Filename, file)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
