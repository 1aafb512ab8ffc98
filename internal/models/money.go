// Package models содержит доменные записи дашборда (подписки, кредиты, долги)
// и DTO для приёма данных из JSON-запросов.
package models

import "github.com/shopspring/decimal"

func init() {
	// суммы пересекают границу сервиса как JSON-числа, а не строки
	decimal.MarshalJSONWithoutQuotes = true
}
