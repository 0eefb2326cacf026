package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mmtracing "github.com/gxo-labs/matchmap/internal/tracing"
	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
	"github.com/jzelinskie/stringz"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedSchemaVersionConstraint is the schema major version accepted by
// this release.
const SupportedSchemaVersionConstraint = "v1"

// LoadMapFile parses and validates a YAML map definition. filePathHint is used
// in messages and to default the map name.
func LoadMapFile(mapYAML []byte, filePathHint string) (*MapFile, error) {
	if len(bytes.TrimSpace(mapYAML)) == 0 {
		return nil, mmerrors.NewConfigError("map file content cannot be empty", nil)
	}

	if err := ValidateWithSchema(mapYAML); err != nil {
		return nil, mmerrors.NewConfigError(fmt.Sprintf("map file '%s' failed schema validation", filePathHint), err)
	}

	var f MapFile
	if err := yamlUnmarshalStrict(mapYAML, &f); err != nil {
		return nil, mmerrors.NewConfigError(fmt.Sprintf("failed to parse map YAML '%s'", filePathHint), err)
	}
	f.FilePath = filePathHint

	if err := checkSchemaVersion(f.SchemaVersion, filePathHint); err != nil {
		return nil, err
	}

	if errs := ValidateMapFile(&f); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		combined := fmt.Sprintf("map file '%s' has %d validation error(s):\n- %s",
			filePathHint, len(msgs), strings.Join(msgs, "\n- "))
		return nil, mmerrors.NewValidationError(combined, errs[0])
	}

	if filePathHint != "" {
		base := filepath.Base(filePathHint)
		f.Name = stringz.DefaultEmpty(f.Name, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	return &f, nil
}

// LoadMapFileFromPath reads and loads a map file from disk inside a
// "matchmap.LoadMapFile" span of the global tracer.
func LoadMapFileFromPath(ctx context.Context, filePath string) (*MapFile, error) {
	_, span := mmtracing.GetTracer().Start(ctx, "matchmap.LoadMapFile",
		trace.WithAttributes(attribute.String("matchmap.file", filePath)))
	defer span.End()

	f, err := loadFromPath(filePath)
	if err != nil {
		mmtracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("matchmap.entries", len(f.Entries)))
	return f, nil
}

func loadFromPath(filePath string) (*MapFile, error) {
	if filePath == "" {
		return nil, mmerrors.NewConfigError("map file path cannot be empty", nil)
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, mmerrors.NewConfigError(fmt.Sprintf("failed to get absolute path for '%s'", filePath), err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, mmerrors.NewConfigError(fmt.Sprintf("failed to read map file '%s'", absPath), err)
	}
	return LoadMapFile(data, absPath)
}

func checkSchemaVersion(version, filePathHint string) error {
	if version == "" {
		return mmerrors.NewFieldValidationError("schemaVersion", fmt.Sprintf("map file '%s' is missing required 'schemaVersion' field", filePathHint), nil)
	}
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return mmerrors.NewFieldValidationError("schemaVersion", fmt.Sprintf("map file '%s' has invalid 'schemaVersion' format: '%s'", filePathHint, version), nil)
	}
	if semver.Major(v) != SupportedSchemaVersionConstraint {
		return mmerrors.NewFieldValidationError("schemaVersion",
			fmt.Sprintf("map file '%s' schemaVersion '%s' is not compatible with requirement '%s'",
				filePathHint, version, SupportedSchemaVersionConstraint), nil)
	}
	return nil
}

// yamlUnmarshalStrict decodes in, rejecting fields unknown to out.
func yamlUnmarshalStrict(in []byte, out interface{}) error {
	decoder := yaml.NewDecoder(bytes.NewReader(in))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("YAML parsing error: %w", err)
	}
	return nil
}
