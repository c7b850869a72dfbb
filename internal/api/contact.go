package api

import (
	"errors"
	"net/http"

	"github.com/smdata-dev/smdata/internal/service"
)

// User-facing messages of the contact endpoint.
const (
	msgInvalidMethod  = "Invalid request method."
	msgRequiredFields = "Please fill in all required fields (Name, Email, and Comments)."
	msgProcessingErr  = "Sorry, there was an error processing your request. Please try again later."
	msgThankYou       = "Thank you for your message! We will get back to you soon."
)

// maxContactBody caps the size of a posted contact form.
const maxContactBody = 64 << 10

type contactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleContact accepts the form-encoded contact form. Outcomes are reported
// in the JSON body; the status code is always 200.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusOK, contactResponse{Success: false, Message: msgInvalidMethod})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	if err := r.ParseForm(); err != nil {
		s.logger.Warn("unreadable contact form", "error", err)
		writeJSON(w, http.StatusOK, contactResponse{Success: false, Message: msgRequiredFields})
		return
	}

	form := service.ContactForm{
		Name:       r.PostForm.Get("name"),
		Email:      r.PostForm.Get("email"),
		Phone:      r.PostForm.Get("phone"),
		Comments:   r.PostForm.Get("comments"),
		RemoteAddr: r.RemoteAddr,
	}

	_, err := s.contactSvc.Submit(r.Context(), form)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusOK, contactResponse{Success: false, Message: msgRequiredFields})
			return
		}
		s.logger.Error("contact submission failed", "error", err)
		writeJSON(w, http.StatusOK, contactResponse{Success: false, Message: msgProcessingErr})
		return
	}

	writeJSON(w, http.StatusOK, contactResponse{Success: true, Message: msgThankYou})
}
