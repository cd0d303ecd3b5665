package auth

import "github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"

// State : résultat explicite de la résolution de session.
// Anonymous n'est pas une erreur — un visiteur non connecté est un cas
// normal qui doit rendre la page proprement.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
	StateError
)

type Result struct {
	State State
	User  *models.User
	Err   error
}

func Authenticated(user *models.User) Result {
	return Result{State: StateAuthenticated, User: user}
}

func Anonymous() Result {
	return Result{State: StateAnonymous}
}

func Failure(err error) Result {
	return Result{State: StateError, Err: err}
}

// Role retourne le rôle résolu, vide pour un anonyme ou une erreur
func (r Result) Role() string {
	if r.State == StateAuthenticated && r.User != nil {
		return r.User.Role
	}
	return ""
}

// IsAdmin : l'admin contourne tous les contrôles de rôle
func (r Result) IsAdmin() bool {
	return r.Role() == models.RoleAdmin
}
