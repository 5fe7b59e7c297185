// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"
	"strings"
)

var (
	errMissingEmail = errors.New("missing email")
	errMissingToken = errors.New("missing token")
)

// RequestLink asks the identity service to email a one-time sign-in link.
func (h *Handler) RequestLink(w http.ResponseWriter, r *http.Request) error {
	var payload struct {
		Email string `json:"email"`
	}

	if err := readJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err)

		return nil
	}

	if !strings.Contains(payload.Email, "@") {
		WriteError(w, http.StatusBadRequest, errMissingEmail)

		return nil
	}

	if err := h.account.RequestLink(r.Context(), payload.Email); err != nil {
		return err
	}

	w.WriteHeader(http.StatusAccepted)

	return nil
}

// Exchange trades a one-time sign-in token for a session.
func (h *Handler) Exchange(w http.ResponseWriter, r *http.Request) error {
	var payload struct {
		Token string `json:"token"`
	}

	if err := readJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err)

		return nil
	}

	if payload.Token == "" {
		WriteError(w, http.StatusBadRequest, errMissingToken)

		return nil
	}

	if err := h.account.Exchange(r.Context(), payload.Token); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// Me reports the signed-in profile, or 401 when logged out.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) error {
	profile, ok, err := h.account.Me(r.Context())
	if err != nil {
		return err
	}

	if !ok {
		WriteError(w, http.StatusUnauthorized, errors.New("not signed in"))

		return nil
	}

	WriteJSON(w, http.StatusOK, profile)

	return nil
}

// Logout discards the stored session.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) error {
	h.account.Logout()

	w.WriteHeader(http.StatusNoContent)

	return nil
}
