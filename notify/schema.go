package notify

import (
	"os"

	"github.com/ecmwf-labs/extreme-events/ee"
)

// schemaKeys lists, in the order they are serialized into the outbound
// URL, the MARS keys every notification is tagged with.
var schemaKeys = []string{"class", "date", "expver", "time", "type"}

// SchemaFromEnv reads the MARS schema keys from environment variables of
// the same name in upper case (CLASS, TYPE, EXPVER, DATE, TIME). It is the
// only part of this package that touches os.Getenv, so the rest of the
// sink stays trivially testable with an explicit schema map.
func SchemaFromEnv() (map[string]string, error) {
	schema := make(map[string]string, len(schemaKeys))
	for _, k := range schemaKeys {
		v := os.Getenv(upper(k))
		if v == "" {
			return nil, &ee.BadParameter{Name: upper(k), Msg: "environment variable is required for the notification schema"}
		}
		schema[k] = v
	}
	return schema, nil
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
