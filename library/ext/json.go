package ext

import (
	"encoding/json"
	"fmt"
)

// ToJSON renders v for log lines. It never fails.
func ToJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
