package models

import "github.com/google/uuid"

const (
	ReaderRole = "Reader"
	WriterRole = "Writer"
	EditorRole = "Editor"
)

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
}

type Role struct {
	ID   int
	Name string
}
