package models

import "time"

// UserRecord is the user document written at sign-up and mutated by the
// settings screens. Field names match the document store keys the clients
// already use, so this struct round-trips through Firestore unchanged.
type UserRecord struct {
	UID             string    `json:"uid" firestore:"uid"`
	FirstName       string    `json:"firstName" firestore:"firstName"`
	LastName        string    `json:"lastName" firestore:"lastName"`
	DisplayName     string    `json:"displayName" firestore:"displayName"`
	Email           string    `json:"email" firestore:"email"`
	DateOfBirth     string    `json:"dateOfBirth" firestore:"dateOfBirth"`
	LastNameVisible bool      `json:"lastNameVisible" firestore:"lastNameVisible"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  UserRecord `json:"user"`
}

func (r *RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < 6 {
		errors["password"] = "Password must be at least 6 characters"
	}
	if r.FirstName == "" {
		errors["firstName"] = "First name is required"
	}
	if r.LastName == "" {
		errors["lastName"] = "Last name is required"
	}

	return errors
}

func (r *LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}
