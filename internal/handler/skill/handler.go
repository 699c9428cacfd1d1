package skill

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmoreau/recovery-squad/backend/internal/model/skill"
	"github.com/jmoreau/recovery-squad/backend/pkg/utils"
)

// Handler serves the static skill descriptor so the hosting framework
// can register the capability.
type Handler struct {
	descriptor skill.Descriptor
}

// New creates the skill handler.
func New(descriptor skill.Descriptor) *Handler {
	return &Handler{descriptor: descriptor}
}

// RegisterRoutes registers the descriptor route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/skill", h.handleGetDescriptor)
}

func (h *Handler) handleGetDescriptor(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.descriptor)
}
