package domain

import (
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	m "embryo.dev/pkg/embryo/internal/model"
)

// SchemaValidator checks a merged context against a bundle's optional CUE
// schema. Validation runs twice per build: once after the merge and again
// after the pre-create hook, since the hook may have replaced the context.
type SchemaValidator struct{}

// NewSchemaValidator constructs a SchemaValidator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// Validate unifies ctx with the schema source and reports every violation
// with its field path. bundle names the schema's origin in errors.
func (v *SchemaValidator) Validate(bundle, schemaSrc string, ctx m.Context) error {
	cctx := cuecontext.New()

	schema := cctx.CompileString(schemaSrc, cue.Filename(bundle+"/"+m.SchemaFileName))
	if err := schema.Err(); err != nil {
		return &m.SchemaError{Bundle: bundle, Fields: fieldErrors(err)}
	}

	data := cctx.Encode(map[string]any(ctx))
	if err := data.Err(); err != nil {
		return &m.SchemaError{Bundle: bundle, Fields: fieldErrors(err)}
	}

	unified := schema.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &m.SchemaError{Bundle: bundle, Fields: fieldErrors(err)}
	}

	return nil
}

// fieldErrors flattens a CUE error into per-field detail. CUE reports error
// paths as string slices; they are joined into dotted paths and stripped
// from the message when redundant.
func fieldErrors(err error) []m.FieldError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return []m.FieldError{{Message: err.Error()}}
	}

	fields := make([]m.FieldError, 0, len(errs))

	for _, e := range errs {
		field := strings.Join(cueerrors.Path(e), ".")

		msg := e.Error()
		if field != "" && strings.HasPrefix(msg, field) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, field), ":"))
		}

		fields = append(fields, m.FieldError{Field: field, Message: msg})
	}

	return fields
}
