package http

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/utils/safe"
)

func attachmentIDParam(r *http.Request) model.AttachmentID {
	return model.AttachmentID(chi.URLParam(r, "attachmentID"))
}

func (s *Server) listAttachments(w http.ResponseWriter, r *http.Request) {
	list, err := s.uc.Attachment.ListAttachments(r.Context(), currentUser(r.Context()), initiativeIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, convertList(list, toAttachmentResponse))
}

// uploadAttachment accepts a multipart form with the payload in "file"
func (s *Server) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, goerr.Wrap(errBadRequest, "multipart field \"file\" is required", goerr.V("cause", err.Error())))
		return
	}
	defer safe.Close(r.Context(), file)

	contentType := header.Header.Get("Content-Type")
	attachment, err := s.uc.Attachment.Upload(r.Context(), currentUser(r.Context()), initiativeIDParam(r), header.Filename, contentType, file)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toAttachmentResponse(attachment))
}

func (s *Server) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	attachment, rc, err := s.uc.Attachment.Open(r.Context(), currentUser(r.Context()), initiativeIDParam(r), attachmentIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	defer safe.Close(r.Context(), rc)

	w.Header().Set("Content-Type", attachment.FileType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": attachment.FileName}))
	if attachment.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(attachment.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	safe.Copy(r.Context(), w, rc)
}

func (s *Server) deleteAttachment(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Attachment.Delete(r.Context(), currentUser(r.Context()), initiativeIDParam(r), attachmentIDParam(r)); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
