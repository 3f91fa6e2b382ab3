// Package masker logs config structs with sensitive fields masked.
package masker

import (
	"errors"
	"reflect"

	"go.uber.org/zap"
)

// ErrConfigNotPointer is returned when a config is passed by value.
var ErrConfigNotPointer = errors.New("config must be a pointer to a struct")

// LogConfigs logs each struct on its own line, recursing into nested
// structs. String fields tagged `masked:"true"` are obscured.
func LogConfigs(logger *zap.Logger, configs ...interface{}) error {
	for _, config := range configs {

		v := reflect.ValueOf(config)
		t := reflect.TypeOf(config)

		if v.Kind() == reflect.Ptr {
			v = v.Elem()
			t = t.Elem()
		} else {
			return ErrConfigNotPointer
		}

		masked := maskStructFields(v, t)

		logger.Info("Config", zap.Any(t.Name(), masked))
	}
	return nil
}

func maskStructFields(v reflect.Value, t reflect.Type) map[string]interface{} {
	result := make(map[string]interface{})
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		masked := fieldType.Tag.Get("masked")

		switch field.Kind() {

		case reflect.Struct:
			result[fieldType.Name] = maskStructFields(field, field.Type())

		case reflect.String:
			if masked == "true" {
				result[fieldType.Name] = maskSensitiveData(field.String())
			} else {
				result[fieldType.Name] = field.String()
			}

		default:
			result[fieldType.Name] = field.Interface()
		}
	}
	return result
}

// maskSensitiveData keeps the first and last characters only; anything two
// characters or shorter becomes "****".
func maskSensitiveData(data string) string {
	if len(data) <= 2 {
		return "****"
	}
	return string(data[0]) + "****" + string(data[len(data)-1])
}
