package models

import "errors"

var (
	// ErrNotFound — запись не найдена или принадлежит другому пользователю.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidInput — данные запроса не прошли проверку бизнес-логики.
	ErrInvalidInput = errors.New("invalid input")
)
