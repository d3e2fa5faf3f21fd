package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget types for rendering fields.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

// Field is one exported struct field with rendering hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
	Max     float64 // Bar scale, resolved from the max or of option
}

// ParseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
// Examples:
//
//	`inspect:"bar,max:1"`
//	`inspect:"bar,of:MaxHP"`  scale by a sibling field
//	`inspect:"angle"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"skip"`
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	name, rest, _ := strings.Cut(tag, ",")
	widget := widgetNames[strings.TrimSpace(name)] // unknown names map to WidgetAuto

	for part := range strings.SplitSeq(rest, ",") {
		if k, v, ok := strings.Cut(strings.TrimSpace(part), ":"); ok {
			options[k] = v
		}
	}
	return widget, options
}

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// ExtractFields reflects over a struct (or pointer to one) and returns its
// exported fields in declaration order. Empty strings are dropped.
func ExtractFields(v any) []Field {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	t := rv.Type()
	fields := make([]Field, 0, rv.NumField())
	for i := range rv.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.String && fv.Len() == 0 {
			continue
		}
		if widget == WidgetAuto {
			widget = autoDetectWidget(fv)
		}

		f := Field{Name: sf.Name, Value: fv.Interface(), Widget: widget, Options: options}
		if widget == WidgetBar {
			f.Max = barMax(rv, options)
		}
		fields = append(fields, f)
	}
	return fields
}

func autoDetectWidget(v reflect.Value) Widget {
	if v.Kind() == reflect.Bool {
		return WidgetBool
	}
	return WidgetLabel
}

// barMax resolves a bar's full-scale value. A missing, unparsable or
// non-positive scale falls back to 1.
func barMax(rv reflect.Value, options map[string]string) float64 {
	if name, ok := options["of"]; ok {
		if f := rv.FieldByName(name); f.IsValid() {
			if m, ok := FloatValue(f.Interface()); ok && m > 0 {
				return m
			}
		}
		return 1
	}
	if s, ok := options["max"]; ok {
		if m, err := strconv.ParseFloat(s, 64); err == nil && m > 0 {
			return m
		}
	}
	return 1
}

// FormatValue formats a field value as a string.
func FormatValue(value any, fmtStr string) string {
	if fmtStr != "" {
		return fmt.Sprintf(fmtStr, value)
	}
	switch v := value.(type) {
	case float32:
		return fmt.Sprintf("%.2f", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprint(value)
	}
}

// FloatValue extracts a float64 from any numeric value.
func FloatValue(value any) (float64, bool) {
	rv := reflect.ValueOf(value)
	switch {
	case !rv.IsValid():
		return 0, false
	case rv.CanFloat():
		return rv.Float(), true
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}
