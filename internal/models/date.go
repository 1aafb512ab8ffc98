package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/magabrotheeeer/finance-dashboard/internal/lib/datemath"
)

// Date — календарный день без времени суток.
// В JSON и в запросах к базе передаётся как YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate берёт календарный день t и хранит его как полночь UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate разбирает строку YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := datemath.Parse(s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// DatePtr возвращает указатель на время, лежащее в d, или nil.
func DatePtr(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// String возвращает дату в формате YYYY-MM-DD.
func (d Date) String() string {
	return datemath.Format(d.Time)
}

// MarshalJSON кодирует дату строкой YYYY-MM-DD, нулевую дату — как null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(datemath.Format(d.Time))
}

// UnmarshalJSON принимает строку YYYY-MM-DD или null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("models.Date: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan читает значение колонки DATE.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("models.Date: cannot scan %T", src)
	}
}

func (d *Date) scanString(s string) error {
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value передаёт дату драйверу; нулевая дата пишется как NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return NewDate(d.Time).Time, nil
}
