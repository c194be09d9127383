package validation

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/badibam/schemakit/internal/cache"
	"github.com/badibam/schemakit/internal/schema"
)

// internalFailure is what callers see when the engine itself faults.
// Validation sits on every save path and must degrade, never crash.
const internalFailure = "validation could not be completed due to an internal error"

// Options configures a Validator.
type Options struct {
	// Cache controls compiled-schema caching, keyed by content fingerprint.
	Cache cache.Config
	// Labeler resolves technical field names to display labels.
	Labeler FieldLabeler
	// Separator joins per-field error messages. Defaults to newline.
	Separator string
	// Logger receives internal engine faults. Defaults to slog.Default().
	Logger *slog.Logger
}

// Validator is the central entry point: it pre-processes a data tree,
// compiles the schema document and reduces raw failures to a Result. It is
// stateless per call and safe for concurrent use.
type Validator struct {
	cache     *cache.Cache
	processor *Processor
	logger    *slog.Logger
}

// New creates a Validator.
func New(opts Options) *Validator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		cache:     cache.New(opts.Cache),
		processor: NewProcessor(opts.Labeler, opts.Separator),
		logger:    logger,
	}
}

// Validate checks a data tree against a schema.
func (v *Validator) Validate(s *schema.Schema, data map[string]interface{}) Result {
	return v.validate(s, data, false)
}

// ValidatePartial checks a data tree that carries only changed fields:
// every required constraint is relaxed, everything else still applies.
func (v *Validator) ValidatePartial(s *schema.Schema, data map[string]interface{}) Result {
	return v.validate(s, data, true)
}

func (v *Validator) validate(s *schema.Schema, data map[string]interface{}, partial bool) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validator panic recovered",
				slog.String("schema", s.ID),
				slog.Any("panic", r),
			)
			result = Invalid(internalFailure)
		}
	}()

	prepared := CoerceStringObjects(PreprocessData(data), s.Content)

	doc := s.Content
	if partial {
		doc = StripRequired(doc)
	}

	compiled, err := v.compile(doc)
	if err != nil {
		v.logger.Error("schema compilation failed",
			slog.String("schema", s.ID),
			slog.String("error", err.Error()),
		)
		return Invalid(internalFailure)
	}

	err = compiled.Validate(prepared)
	if err == nil {
		return Valid()
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		v.logger.Error("unexpected validation error type",
			slog.String("schema", s.ID),
			slog.String("error", err.Error()),
		)
		return Invalid(internalFailure)
	}

	message := v.processor.Process(flatten(validationErr), s.Content)
	if message == "" {
		// Every failure was conditional-branch noise.
		return Valid()
	}
	return Invalid(message)
}

// compile turns a schema document into an executable matcher, reading
// through the fingerprint-keyed cache. The matcher evaluates allOf, oneOf
// and if/then/else natively during execution.
func (v *Validator) compile(doc schema.Document) (*jsonschema.Schema, error) {
	canonical := schema.Canonicalize(doc)
	key := schema.Fingerprint(doc)

	if cached, ok := v.cache.Get(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource("schema.json", strings.NewReader(canonical)); err != nil {
		return nil, err
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, err
	}

	v.cache.Set(key, compiled)
	return compiled, nil
}

var quotedNamePattern = regexp.MustCompile(`'([^']+)'`)

// flatten collects the leaf causes of a validation error into raw
// messages. Required failures are expanded to one message per missing
// field so that grouping and labeling address the field, not its parent
// object.
func flatten(err *jsonschema.ValidationError) []Message {
	var leaves []*jsonschema.ValidationError
	collectLeaves(err, &leaves)

	messages := make([]Message, 0, len(leaves))
	for _, leaf := range leaves {
		path := pointerToFieldPath(leaf.InstanceLocation)

		// Required and additionalProperties failures point at the parent
		// object and name the offending fields in their message. Expand
		// them to one message per field so grouping and labeling address
		// the field itself.
		var expanded string
		switch {
		case strings.HasSuffix(leaf.KeywordLocation, "/required"):
			expanded = "required field is missing"
		case strings.HasSuffix(leaf.KeywordLocation, "/additionalProperties"):
			expanded = "field is not declared by the schema"
		}
		if expanded != "" {
			names := quotedNamePattern.FindAllStringSubmatch(leaf.Message, -1)
			if len(names) > 0 {
				for _, match := range names {
					messages = append(messages, Message{
						Path:       path + "." + match[1],
						Message:    expanded,
						SchemaPath: leaf.KeywordLocation,
					})
				}
				continue
			}
		}

		messages = append(messages, Message{
			Path:       path,
			Message:    leaf.Message,
			SchemaPath: leaf.KeywordLocation,
		})
	}
	return messages
}

func collectLeaves(err *jsonschema.ValidationError, out *[]*jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*out = append(*out, err)
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(cause, out)
	}
}

// pointerToFieldPath converts a JSON pointer instance location to the
// engine's field-pointer syntax: "/value/quantity" becomes
// ".value.quantity", "/items/2/name" becomes ".items[2].name".
func pointerToFieldPath(pointer string) string {
	if pointer == "" || pointer == "/" {
		return ""
	}

	var b strings.Builder
	for _, segment := range strings.Split(pointer, "/") {
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if isIndex(segment) {
			b.WriteString("[" + segment + "]")
		} else {
			b.WriteString("." + segment)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
