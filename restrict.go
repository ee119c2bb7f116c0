package transcode

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/zoobzio/sentinel"
)

// tagCharset is the struct tag naming a field's charset and optional policy:
//
//	Name string `charset:"latin-1,replace"`
const tagCharset = "charset"

func init() {
	sentinel.Tag(tagCharset)
}

// Restrictor limits tagged string fields of T to the repertoire of a charset.
//
// Restrict round-trips every tagged field through its charset, so text that
// would not survive storage in that charset is resolved up front by the
// tag's policy. Check reports the first field that would fail strictly.
//
// Restrictors are safe for concurrent use.
type Restrictor[T Cloner[T]] struct {
	conv     *Converter
	plans    []restrictFieldPlan
	typeName string
}

// restrictFieldPlan describes how to restrict a single field.
type restrictFieldPlan struct {
	index      []int       // reflect.Value.FieldByIndex access path
	name       string      // field name for error messages
	charset    string      // charset name from the tag
	policy     ErrorPolicy // policy from the tag, strict if omitted
	ptrIndices []int       // indices where pointer dereference is needed
	isSlice    bool        // true if field is []string
	isMap      bool        // true if field is map[K]string
}

type typeRestrictPlans struct {
	typeName string
	fields   []restrictFieldPlan
}

var (
	planCache   = make(map[reflect.Type]*typeRestrictPlans)
	planCacheMu sync.RWMutex
)

// NewRestrictor creates a Restrictor for type T.
// A nil converter uses NewConverter(). Tags naming unknown charsets or
// policies fail here rather than on first use.
func NewRestrictor[T Cloner[T]](conv *Converter) (*Restrictor[T], error) {
	if conv == nil {
		conv = NewConverter()
	}

	plans, err := getOrBuildPlans[T]()
	if err != nil {
		return nil, err
	}
	for _, plan := range plans.fields {
		if _, err := conv.Lookup(plan.charset); err != nil {
			return nil, fmt.Errorf("charset tag on field %s: %w", plan.name, err)
		}
	}

	r := &Restrictor[T]{
		conv:     conv,
		plans:    plans.fields,
		typeName: plans.typeName,
	}

	emitRestrictorCreated(context.Background(), plans.typeName, len(plans.fields))
	return r, nil
}

// getOrBuildPlans returns cached field plans for T, building them on first use.
func getOrBuildPlans[T Cloner[T]]() (*typeRestrictPlans, error) {
	typ := reflect.TypeFor[T]()

	planCacheMu.RLock()
	if cached, ok := planCache[typ]; ok {
		planCacheMu.RUnlock()
		return cached, nil
	}
	planCacheMu.RUnlock()

	plans, err := buildFieldPlans[T]()
	if err != nil {
		return nil, err
	}

	planCacheMu.Lock()
	defer planCacheMu.Unlock()
	if cached, ok := planCache[typ]; ok {
		return cached, nil
	}
	planCache[typ] = plans
	return plans, nil
}

// buildFieldPlans creates field plans for type T by scanning struct tags.
func buildFieldPlans[T Cloner[T]]() (*typeRestrictPlans, error) {
	spec := sentinel.Scan[T]()
	plans := &typeRestrictPlans{
		typeName: spec.TypeName,
	}

	if err := buildFieldPlansRecursive(plans, spec, nil, nil, ""); err != nil {
		return nil, err
	}

	return plans, nil
}

// buildFieldPlansRecursive recursively processes fields and nested structs.
func buildFieldPlansRecursive(plans *typeRestrictPlans, spec sentinel.Metadata, parentIndex, ptrIndices []int, namePrefix string) error {
	for _, field := range spec.Fields {
		fullIndex := append(append([]int{}, parentIndex...), field.Index...)
		fullName := field.Name
		if namePrefix != "" {
			fullName = namePrefix + "." + field.Name
		}

		// Handle nested structs
		if field.Kind == sentinel.KindStruct {
			nestedSpec := scanNestedType(field.ReflectType)
			if nestedSpec != nil {
				if err := buildFieldPlansRecursive(plans, *nestedSpec, fullIndex, ptrIndices, fullName); err != nil {
					return err
				}
			}
			continue
		}

		// Handle pointer to struct
		if field.Kind == sentinel.KindPointer && field.ReflectType.Elem().Kind() == reflect.Struct {
			nestedSpec := scanNestedType(field.ReflectType.Elem())
			if nestedSpec != nil {
				newPtrIndices := append(append([]int{}, ptrIndices...), len(fullIndex)-1)
				if err := buildFieldPlansRecursive(plans, *nestedSpec, fullIndex, newPtrIndices, fullName); err != nil {
					return err
				}
			}
			continue
		}

		val, ok := field.Tags[tagCharset]
		if !ok {
			continue
		}

		isString := field.ReflectType.Kind() == reflect.String
		isStringSlice := field.ReflectType.Kind() == reflect.Slice &&
			field.ReflectType.Elem().Kind() == reflect.String
		isStringMap := field.ReflectType.Kind() == reflect.Map &&
			field.ReflectType.Elem().Kind() == reflect.String

		if !isString && !isStringSlice && !isStringMap {
			return fmt.Errorf("charset tag on field %s: unsupported type %s", fullName, field.ReflectType)
		}

		charset, policy, err := parseCharsetTag(val)
		if err != nil {
			return fmt.Errorf("charset tag on field %s: %w", fullName, err)
		}

		plans.fields = append(plans.fields, restrictFieldPlan{
			index:      fullIndex,
			name:       fullName,
			charset:    charset,
			policy:     policy,
			ptrIndices: ptrIndices,
			isSlice:    isStringSlice,
			isMap:      isStringMap,
		})
	}

	return nil
}

// parseCharsetTag splits "latin-1,replace" into its charset and policy.
func parseCharsetTag(val string) (string, ErrorPolicy, error) {
	charset, rawPolicy, _ := strings.Cut(val, ",")
	charset = strings.TrimSpace(charset)
	if charset == "" {
		return "", "", newLookupError(ErrUnsupportedCodec, "tag", val, nil)
	}
	if strings.TrimSpace(rawPolicy) == "" {
		return charset, PolicyStrict, nil
	}
	policy, err := ParsePolicy(rawPolicy)
	if err != nil {
		return "", "", err
	}
	return charset, policy, nil
}

// scanNestedType builds metadata for a nested struct that sentinel has not
// registered. Only fields that can hold a charset tag, or lead to one
// through a struct or struct pointer, are kept.
func scanNestedType(rt reflect.Type) *sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return &spec
	}

	if rt.Kind() != reflect.Struct {
		return nil
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		val, tagged := sf.Tag.Lookup(tagCharset)
		kind := sentinel.KindScalar
		switch sf.Type.Kind() {
		case reflect.Struct:
			kind = sentinel.KindStruct
		case reflect.Ptr:
			if sf.Type.Elem().Kind() != reflect.Struct && !tagged {
				continue
			}
			kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			kind = sentinel.KindSlice
		case reflect.Map:
			kind = sentinel.KindMap
		case reflect.Interface:
			kind = sentinel.KindInterface
		}
		if !tagged && kind != sentinel.KindStruct && kind != sentinel.KindPointer {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Kind:        kind,
			Tags:        map[string]string{},
		}
		if tagged {
			fm.Tags[tagCharset] = val
		}
		spec.Fields = append(spec.Fields, fm)
	}

	return &spec
}

// Restrict returns a clone of obj with every tagged field round-tripped
// through its charset under the tag's policy.
// A nil obj returns nil.
func (r *Restrictor[T]) Restrict(ctx context.Context, obj *T) (*T, error) {
	start := time.Now()
	var retErr error
	defer func() {
		emitRestrictComplete(ctx, r.typeName, time.Since(start), len(r.plans), retErr)
	}()

	if obj == nil {
		return nil, nil
	}

	// Clone to avoid mutating original
	clone := (*obj).Clone()

	if rs, ok := any(&clone).(Restrictable); ok {
		if err := rs.Restrict(r.conv); err != nil {
			retErr = fmt.Errorf("restrict: %w", err)
			return nil, retErr
		}
		return &clone, nil
	}

	if err := r.apply(ctx, &clone, false); err != nil {
		retErr = err
		return nil, retErr
	}
	return &clone, nil
}

// Check reports the first tagged field of obj that cannot be represented in
// its charset, ignoring tag policies. obj is not modified.
func (r *Restrictor[T]) Check(ctx context.Context, obj *T) error {
	start := time.Now()
	var retErr error
	defer func() {
		emitRestrictComplete(ctx, r.typeName, time.Since(start), len(r.plans), retErr)
	}()

	if obj == nil {
		return nil
	}
	retErr = r.apply(ctx, obj, true)
	return retErr
}

// apply walks the field plans. In check mode every field is encoded strictly
// and values are left untouched.
func (r *Restrictor[T]) apply(ctx context.Context, obj *T, check bool) error {
	rv := reflect.ValueOf(obj).Elem()

	for _, plan := range r.plans {
		field, ok := r.getField(rv, plan)
		if !ok {
			continue
		}

		policy := plan.policy
		if check {
			policy = PolicyStrict
		}
		restrict := func(s string) (string, error) {
			return r.roundTrip(ctx, s, plan.charset, policy)
		}

		// Handle slice of strings
		if plan.isSlice {
			for i := 0; i < field.Len(); i++ {
				elem := field.Index(i)
				out, err := restrict(elem.String())
				if err != nil {
					return fmt.Errorf("restrict field %s[%d]: %w", plan.name, i, err)
				}
				if !check && elem.CanSet() {
					elem.SetString(out)
				}
			}
			continue
		}

		// Handle map of strings
		if plan.isMap {
			iter := field.MapRange()
			for iter.Next() {
				k, v := iter.Key(), iter.Value()
				out, err := restrict(v.String())
				if err != nil {
					return fmt.Errorf("restrict field %s[%v]: %w", plan.name, k.Interface(), err)
				}
				if !check {
					field.SetMapIndex(k, reflect.ValueOf(out).Convert(field.Type().Elem()))
				}
			}
			continue
		}

		out, err := restrict(field.String())
		if err != nil {
			return fmt.Errorf("restrict field %s: %w", plan.name, err)
		}
		if !check && field.CanSet() {
			field.SetString(out)
		}
	}

	return nil
}

// roundTrip encodes s into charset under policy and decodes it back.
func (r *Restrictor[T]) roundTrip(ctx context.Context, s, charset string, policy ErrorPolicy) (string, error) {
	data, err := r.conv.EncodeString(ctx, s, charset, policy)
	if err != nil {
		return "", err
	}
	return r.conv.DecodeBytes(ctx, data, charset, PolicyStrict)
}

// getField resolves the tagged field a plan points at, following nested
// struct pointers. It reports false when a pointer on the way is nil, in
// which case the field is skipped.
func (r *Restrictor[T]) getField(rv reflect.Value, plan restrictFieldPlan) (reflect.Value, bool) {
	if len(plan.ptrIndices) == 0 {
		return rv.FieldByIndex(plan.index), true
	}

	current := rv
	ptrSet := make(map[int]bool, len(plan.ptrIndices))
	for _, idx := range plan.ptrIndices {
		ptrSet[idx] = true
	}

	for i, idx := range plan.index {
		current = current.Field(idx)

		if ptrSet[i] {
			if current.IsNil() {
				return reflect.Value{}, false
			}
			current = current.Elem()
		}
	}

	return current, true
}

// restrictorKey identifies a cached restrictor.
type restrictorKey struct {
	typ reflect.Type
}

var (
	restrictors   = make(map[restrictorKey]any)
	restrictorsMu sync.RWMutex
)

// Use returns a cached Restrictor for T using the default converter,
// building one on first use.
func Use[T Cloner[T]]() (*Restrictor[T], error) {
	key := restrictorKey{typ: reflect.TypeFor[T]()}

	// Fast path: read-lock cache check
	restrictorsMu.RLock()
	if cached, ok := restrictors[key]; ok {
		restrictorsMu.RUnlock()
		return cached.(*Restrictor[T]), nil
	}
	restrictorsMu.RUnlock()

	// Slow path: build and cache with write-lock
	restrictorsMu.Lock()
	defer restrictorsMu.Unlock()

	// Double-check pattern
	if cached, ok := restrictors[key]; ok {
		return cached.(*Restrictor[T]), nil
	}

	r, err := NewRestrictor[T](nil)
	if err != nil {
		return nil, err
	}

	restrictors[key] = r
	return r, nil
}

// resetRestrictors clears cached restrictors and field plans.
func resetRestrictors() {
	restrictorsMu.Lock()
	restrictors = make(map[restrictorKey]any)
	restrictorsMu.Unlock()

	planCacheMu.Lock()
	planCache = make(map[reflect.Type]*typeRestrictPlans)
	planCacheMu.Unlock()
}
