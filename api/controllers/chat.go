package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wisetee/orderline-backend/api/responses"
	"github.com/wisetee/orderline-backend/api/validators"
	"github.com/wisetee/orderline-backend/internal/agent"
	"github.com/wisetee/orderline-backend/pkg/config"
	pkgerrors "github.com/wisetee/orderline-backend/pkg/errors"
	"github.com/wisetee/orderline-backend/pkg/logger"
)

const (
	defaultSource = "Direct"
	maxMessageLen = 4000
)

// proof uploads are served back under this mount by the static file route
const uploadURLPrefix = "/static/uploads/"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message" validate:"required,max=4000"`
}

type chatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
	OrderNumber    string `json:"order_number,omitempty"`
}

// ChatTurn handles one plain conversational message.
func ChatTurn(agentSvc agent.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversationID := strings.TrimSpace(req.ConversationID)
		if conversationID == "" {
			conversationID = uuid.NewString()
		}

		result, err := agentSvc.Turn(r.Context(), agent.TurnInput{
			ConversationID: conversationID,
			Content:        validators.SanitizeString(req.Message, maxMessageLen),
			Source:         sourceFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, chatResponse{
			ConversationID: result.ConversationID,
			Reply:          result.Reply,
			OrderNumber:    result.OrderNumber,
		})
	}
}

// ChatProof handles the payment-proof upload turn: the image is stored
// locally and the turn runs with the stored file's URL attached.
func ChatProof(agentSvc agent.Service, uploads config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(uploads.MaxUploadMB) << 20
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1024)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart request"))
			return
		}

		conversationID := validators.SanitizeString(r.FormValue("conversation_id"), 128)
		if conversationID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "conversation_id is required"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payment proof file is required"))
			return
		}
		defer file.Close()

		proofURL, err := storeProofImage(uploads.Dir, file, header, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := agentSvc.Turn(r.Context(), agent.TurnInput{
			ConversationID: conversationID,
			Content:        validators.SanitizeString(r.FormValue("message"), maxMessageLen),
			ImageURL:       proofURL,
			Source:         sourceFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, chatResponse{
			ConversationID: result.ConversationID,
			Reply:          result.Reply,
			OrderNumber:    result.OrderNumber,
		})
	}
}

func storeProofImage(dir string, file multipart.File, header *multipart.FileHeader, maxBytes int64) (string, error) {
	if header.Size > maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds %d MiB limit", maxBytes>>20))
	}

	contentType := strings.TrimSpace(strings.SplitN(header.Header.Get("Content-Type"), ";", 2)[0])
	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "only JPEG and PNG images are accepted")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "prepare upload directory")
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create upload file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload file")
	}

	return uploadURLPrefix + name, nil
}

func sourceFromRequest(r *http.Request) string {
	if referer := strings.TrimSpace(r.Referer()); referer != "" {
		return referer
	}
	return defaultSource
}
