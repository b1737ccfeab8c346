package router

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jakubmanczak/quote-engine/modules/auth"
	"github.com/jakubmanczak/quote-engine/modules/user"
)

const msgNoSuchUser = "No such user found."

type usersHandler struct {
	auth  *auth.Authenticator
	users UserStore
	log   *slog.Logger
}

type manualUserCreation struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

func (h *usersHandler) create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.auth.Authenticate(w, r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if !actor.HasPermission(user.UsersManualCreatePermission) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	var payload manualUserCreation
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondText(w, http.StatusBadRequest, msgBadBody)
		return
	}
	if err := user.ValidateHandle(payload.Handle); err != nil {
		respondError(w, h.log, err)
		return
	}
	if err := user.ValidatePassword(payload.Password); err != nil {
		respondError(w, h.log, err)
		return
	}

	created, err := h.users.Create(r.Context(), user.NewIncomplete(payload.Handle), payload.Password)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (h *usersHandler) getByID(w http.ResponseWriter, r *http.Request) {
	actor, err := h.auth.Authenticate(w, r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if !actor.HasPermission(user.UsersInspectPermission) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	target, ok := h.lookupTarget(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, target)
}

type userPatch struct {
	Handle    *string `json:"handle"`
	Clearance *uint8  `json:"clearance"`
}

func (h *usersHandler) patch(w http.ResponseWriter, r *http.Request) {
	actor, err := h.auth.Authenticate(w, r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	target, ok := h.lookupTarget(w, r)
	if !ok {
		return
	}

	var patch userPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondText(w, http.StatusBadRequest, msgBadBody)
		return
	}

	if actor.ID == target.ID {
		if patch.Handle != nil && !actor.HasPermission(user.UsersChangeOwnHandlePermission) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
	} else {
		if !actor.Outranks(target) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if patch.Handle != nil && !actor.HasPermission(user.UsersManageHandlesPermission) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
	}

	if patch.Clearance != nil {
		if !actor.HasPermission(user.UsersManageClearancesPermission) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		// Without the wildcard nobody hands out a rank above their own.
		if *patch.Clearance > actor.Clearance && !actor.HasPermission(user.TheEverythingPermission) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
	}

	if patch.Handle != nil {
		if err := user.ValidateHandle(*patch.Handle); err != nil {
			respondError(w, h.log, err)
			return
		}
		target.Handle = *patch.Handle
	}
	if patch.Clearance != nil {
		target.Clearance = *patch.Clearance
	}

	if err := h.users.Update(r.Context(), target); err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, target)
}

func (h *usersHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor, err := h.auth.Authenticate(w, r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if !actor.HasPermission(user.UsersDeletePermission) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	target, ok := h.lookupTarget(w, r)
	if !ok {
		return
	}
	if actor.ID != target.ID && !actor.Outranks(target) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if err := h.users.Delete(r.Context(), target.ID); err != nil {
		respondError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePassword struct {
	Password string `json:"password"`
}

func (h *usersHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	actor, err := h.auth.Authenticate(w, r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	target, ok := h.lookupTarget(w, r)
	if !ok {
		return
	}

	if actor.ID == target.ID {
		if !actor.HasPermission(user.UsersChangeOwnPasswordPermission) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
	} else {
		if !actor.HasPermission(user.UsersManagePasswordsPermission) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if !actor.Outranks(target) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
	}

	var payload changePassword
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondText(w, http.StatusBadRequest, msgBadBody)
		return
	}
	if err := user.ValidatePassword(payload.Password); err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.users.SetPassword(r.Context(), target.ID, payload.Password); err != nil {
		respondError(w, h.log, err)
		return
	}
	respondText(w, http.StatusOK, "Password updated.")
}

func (h *usersHandler) allAttributes(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(user.AllAttributes()))
	for _, a := range user.AllAttributes() {
		names = append(names, a.String())
	}
	respondJSON(w, http.StatusOK, names)
}

// lookupTarget resolves the {id} path parameter to a user, writing the
// response itself on failure.
func (h *usersHandler) lookupTarget(w http.ResponseWriter, r *http.Request) (user.User, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondText(w, http.StatusBadRequest, msgNoSuchUser)
		return user.User{}, false
	}
	target, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondText(w, http.StatusBadRequest, msgNoSuchUser)
		} else {
			respondError(w, h.log, err)
		}
		return user.User{}, false
	}
	return target, true
}
