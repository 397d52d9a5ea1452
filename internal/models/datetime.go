package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DateTimeLayouts are the accepted input forms, tried in order. Values
// without a zone are taken as UTC.
var DateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateTime is a timestamp that accepts ISO 8601 dates and datetimes with or
// without a zone. It encodes as RFC 3339.
type DateTime struct {
	time.Time
}

// ParseDateTime parses value with the first matching layout.
func ParseDateTime(value string) (DateTime, error) {
	value = strings.TrimSpace(value)
	for _, layout := range DateTimeLayouts {
		if at, err := time.Parse(layout, value); err == nil {
			return DateTime{Time: at.UTC()}, nil
		}
	}
	return DateTime{}, fmt.Errorf("unrecognised datetime %q", value)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return d.Time.MarshalJSON()
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("datetime must be a string: %w", err)
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d DateTime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.Time)
}

func (d *DateTime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	at, ok := bson.RawValue{Type: t, Value: data}.TimeOK()
	if !ok {
		return fmt.Errorf("cannot decode bson %s into a datetime", t)
	}
	d.Time = at.UTC()
	return nil
}

// Value stores the timestamp as a native SQL time.
func (d DateTime) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *DateTime) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		d.Time = v.UTC()
		return nil
	case string:
		parsed, err := ParseDateTime(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into a datetime", value)
	}
}
