// Пакет contracts валидирует входящие payload-ы по JSON-схемам.
// Схемы вшиты в бинарь через embed и компилируются один раз при старте.
package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas
var schemasFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Сначала регистрируем все схемы как ресурсы, чтобы работали $ref
	err := fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			file, openErr := schemasFS.Open(path)
			if openErr != nil {
				return openErr
			}
			defer file.Close()
			if addErr := compiler.AddResource(path, file); addErr != nil {
				log.Fatalf("failed to add schema resource %s: %v", path, addErr)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and adding schema resources: %v", err)
	}

	// Второй проход - компиляция и регистрация под ключом "<имя>/v<версия>"
	err = fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			schema, compileErr := compiler.Compile(path)
			if compileErr != nil {
				log.Printf("WARNING: could not compile schema %s: %v. Skipping.", path, compileErr)
				return nil
			}
			key := strings.TrimSuffix(strings.TrimPrefix(path, "schemas/"), ".json")
			compiledSchemas[key] = schema
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and compiling schemas: %v", err)
	}
}

// ValidatePropertyDraft проверяет тело черновика объявления по схеме
// property/v1. Возвращает подробную ошибку валидации.
func ValidatePropertyDraft(body []byte) error {
	return validate("property/v1", body)
}

func validate(key string, body []byte) error {
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema %q not found", key)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		// Невалидный JSON - валидация по схеме невозможна
		return fmt.Errorf("body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
