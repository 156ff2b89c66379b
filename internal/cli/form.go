package cli

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/charmbracelet/huh"
)

var (
	fileSlotType = reflect.TypeOf(domain.FileSlot{})
	rowIDType    = reflect.TypeOf(domain.RowID(0))
)

// Computed or structural keys that are never edited through a form.
var readOnlyKeys = map[string]bool{
	"id":                 true,
	"grant_totals":       true,
	"total_project_cost": true,
}

type fieldKind int

const (
	kindText fieldKind = iota
	kindInt
	kindFloat
	kindOptionalFloat
	kindFile
)

// formField binds one scalar of a section payload to a text input.
type formField struct {
	path  []int
	label string
	kind  fieldKind
	value string
}

type formGroup struct {
	title  string
	fields []*formField
}

// sectionForm edits the scalar fields of one section. Lists are edited
// with 'grantdesk section set'.
type sectionForm struct {
	id     domain.SectionID
	groups []*formGroup
	lists  []string
}

// bindSection snapshots payload, a pointer to a section struct, into
// editable strings.
func bindSection(id domain.SectionID, payload any) *sectionForm {
	f := &sectionForm{id: id}
	root := &formGroup{title: id.Name()}
	f.groups = append(f.groups, root)
	f.walk(reflect.ValueOf(payload).Elem(), nil, "", root)
	if len(root.fields) == 0 {
		f.groups = f.groups[1:]
	}
	return f
}

func (f *sectionForm) walk(v reflect.Value, path []int, prefix string, group *formGroup) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		key := yamlKey(sf)
		if key == "-" || readOnlyKeys[key] || sf.Type == rowIDType {
			continue
		}
		fv := v.Field(i)
		p := append(append([]int(nil), path...), i)
		label := strings.TrimSpace(prefix + " " + humanize(key))

		if sf.Anonymous && fv.Kind() == reflect.Struct {
			f.walk(fv, p, prefix, group)
			continue
		}

		switch {
		case sf.Type == fileSlotType:
			slot := fv.Interface().(domain.FileSlot)
			value := ""
			if slot.Pending() {
				value = slot.Local.Path
			}
			group.fields = append(group.fields, &formField{path: p, label: label + " (file path)", kind: kindFile, value: value})
		case fv.Kind() == reflect.String:
			group.fields = append(group.fields, &formField{path: p, label: label, kind: kindText, value: fv.String()})
		case fv.Kind() == reflect.Int:
			group.fields = append(group.fields, &formField{path: p, label: label, kind: kindInt, value: formatInt(fv.Int())})
		case fv.Kind() == reflect.Float64:
			group.fields = append(group.fields, &formField{path: p, label: label, kind: kindFloat, value: formatFloat(fv.Float())})
		case fv.Kind() == reflect.Ptr && sf.Type.Elem().Kind() == reflect.Float64:
			value := ""
			if !fv.IsNil() {
				value = formatFloat(fv.Elem().Float())
			}
			group.fields = append(group.fields, &formField{path: p, label: label, kind: kindOptionalFloat, value: value})
		case fv.Kind() == reflect.Struct:
			sub := &formGroup{title: label}
			f.groups = append(f.groups, sub)
			f.walk(fv, p, "", sub)
		case fv.Kind() == reflect.Array:
			for j := 0; j < fv.Len(); j++ {
				sub := &formGroup{title: fmt.Sprintf("%s %d", label, j+1)}
				f.groups = append(f.groups, sub)
				f.walk(fv.Index(j), append(append([]int(nil), p...), j), "", sub)
			}
		case fv.Kind() == reflect.Slice || fv.Kind() == reflect.Map:
			f.lists = append(f.lists, key)
		}
	}
}

// form builds the huh form over the bound values.
func (f *sectionForm) form() *huh.Form {
	var groups []*huh.Group
	for _, g := range f.groups {
		if len(g.fields) == 0 {
			continue
		}
		fields := make([]huh.Field, 0, len(g.fields))
		for _, ff := range g.fields {
			fields = append(fields, ff.input())
		}
		groups = append(groups, huh.NewGroup(fields...).Title(g.title))
	}
	if len(groups) == 0 {
		groups = append(groups, huh.NewGroup(huh.NewNote().
			Title(f.id.Name()).
			Description("This section only holds lists. Edit them with 'grantdesk section set'.")))
	}
	return huh.NewForm(groups...).WithTheme(grantdeskHuhTheme()).WithShowHelp(false)
}

func (ff *formField) input() *huh.Input {
	in := huh.NewInput().Title(ff.label).Value(&ff.value)
	switch ff.kind {
	case kindInt:
		in = in.Validate(validateInt)
	case kindFloat, kindOptionalFloat:
		in = in.Validate(validateFloat)
	}
	return in
}

// apply writes the edited values back into payload.
func (f *sectionForm) apply(payload any) error {
	root := reflect.ValueOf(payload).Elem()
	for _, g := range f.groups {
		for _, ff := range g.fields {
			if err := ff.set(fieldAt(root, ff.path)); err != nil {
				return fmt.Errorf("%s: %w", ff.label, err)
			}
		}
	}
	return nil
}

func (ff *formField) set(v reflect.Value) error {
	value := strings.TrimSpace(ff.value)
	switch ff.kind {
	case kindText:
		v.SetString(ff.value)
	case kindInt:
		n, err := parseInt(value)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case kindFloat:
		x, err := parseFloat(value)
		if err != nil {
			return err
		}
		v.SetFloat(x)
	case kindOptionalFloat:
		if value == "" {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		x, err := parseFloat(value)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(domain.Float(x)))
	case kindFile:
		slot := v.Addr().Interface().(*domain.FileSlot)
		if value == "" {
			if slot.Pending() {
				slot.Attach("")
			}
			return nil
		}
		if abs, err := filepath.Abs(value); err == nil {
			value = abs
		}
		slot.Attach(value)
	}
	return nil
}

// fieldAt follows a path of struct field and array indexes.
func fieldAt(v reflect.Value, path []int) reflect.Value {
	for _, i := range path {
		if v.Kind() == reflect.Array {
			v = v.Index(i)
		} else {
			v = v.Field(i)
		}
	}
	return v
}

// resolveAttachments makes relative pending file paths absolute against dir.
func resolveAttachments(payload any, dir string) {
	eachFileSlot(reflect.ValueOf(payload), func(slot *domain.FileSlot) {
		if slot.Pending() && !filepath.IsAbs(slot.Local.Path) {
			slot.Local.Path = filepath.Join(dir, slot.Local.Path)
		}
	})
}

func eachFileSlot(v reflect.Value, fn func(*domain.FileSlot)) {
	switch v.Kind() {
	case reflect.Ptr:
		if !v.IsNil() {
			eachFileSlot(v.Elem(), fn)
		}
	case reflect.Struct:
		if v.Type() == fileSlotType {
			if v.CanAddr() {
				fn(v.Addr().Interface().(*domain.FileSlot))
			}
			return
		}
		for i := 0; i < v.NumField(); i++ {
			eachFileSlot(v.Field(i), fn)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			eachFileSlot(v.Index(i), fn)
		}
	}
}

func yamlKey(sf reflect.StructField) string {
	tag := sf.Tag.Get("yaml")
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(sf.Name)
	}
	return name
}

// humanize turns "applicant_name" into "Applicant name".
func humanize(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatInt(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("must be a whole number")
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	x, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	return x, nil
}

func validateInt(s string) error {
	_, err := parseInt(strings.TrimSpace(s))
	return err
}

func validateFloat(s string) error {
	_, err := parseFloat(strings.TrimSpace(s))
	return err
}
