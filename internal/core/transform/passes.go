package transform

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	singleQuoteAttr = regexp.MustCompile(`(?i)([a-z_-]+)='([^']*)'([ />])`)
	menulistPopup   = regexp.MustCompile(`<menulist([^>]*)>[\r\n\s]*(<!--[^>]+-->[\r\n\s]*)?<menupopup([^>]+>)[\r\n\s]*</menulist>`)
	optionsAttr     = regexp.MustCompile(`<([^- />]+)(-[^ ]+)?[^>]* (options="([^"]+)")[ />]`)
	staticType      = regexp.MustCompile(` type="([a-z-]+)"`)
	splitTag        = regexp.MustCompile(`(?s)<split([^>]*?)>(.*)</split>`)
	exposeView      = regexp.MustCompile(`<(image|description)\s([^><]*)expose_view="true"\s([^><]*)/>`)
	multilineText   = regexp.MustCompile(`<textbox(.*?)\smultiline="true"(.*?)/>`)
	numericText     = regexp.MustCompile(`<(textbox|int(eger)?|float|number).*?\s(type="(int(eger)?|float)")?.*?(/|></textbox)>`)
	legacyPrefix    = regexp.MustCompile(`<((/?)(tabbox|description|details|searchbox|textbox|label|avatar|lavatar|image|appicon|colorpicker|checkbox|url(-email|-phone|-fax)?|vfs-mime|vfs-uid|vfs-gid|link|link-[a-z]+|favorites))(/?|\s[^>]*)>`)
	linkTag         = regexp.MustCompile(`(?s)<et2-link(-[a-z]+)?([^>]*?)></et2-link(-[a-z]+)?>`)
	selectTag       = regexp.MustCompile(`(?s)<(select|taglist|listbox)(-[^ ]+)? ([^>]+?)(/|>(.*?)</select)>`)
	selectTypeHead  = regexp.MustCompile(`^(select|taglist)`)
	nextmatchHeader = regexp.MustCompile(`(?s)<(nextmatch-)([^ ]+)(header|filter) ([^>]+?)/>`)
	passwdTag       = regexp.MustCompile(`<passwd ([^>]+)(/|></passwd)>`)
	buttonTag       = regexp.MustCompile(`(?s)<(button|buttononly|timestamper|button-timestamp)\s(.*?)(/|></(button|buttononly|timestamper|button-timestamp))>`)
	listTemplate    = regexp.MustCompile(`^(index|list)`)
	dateTag         = regexp.MustCompile(`<date(-time[^\s]*|-duration|-since)?\s([^>]+)/>`)
	legacyOverlay   = regexp.MustCompile(`<overlay[^>]* legacy="true"`)
	boxPrefix       = regexp.MustCompile(`<((/?)([vh]?box))(/?|\s[^>]*)>`)
	webComponent    = regexp.MustCompile(`<(et2|records)-([a-z-]+)\s([^>]+)>`)
	nameSeparator   = regexp.MustCompile(`[_-]`)
	fullWidthClass  = regexp.MustCompile(`(^| )et2_fullWidth( |$)`)
)

const (
	legacyPrefixLastGroup = 5
	boxPrefixLastGroup    = 4
)

// legacyOptionNames maps a widget type to the attribute names its
// comma-separated options="" value is spread over. "ignore" swallows values.
var legacyOptionNames = map[string][]string{
	"select":                  {"empty_label", "ignore"},
	"select-account":          {"empty_label", "account_type", "ignore"},
	"select-number":           {"empty_label", "min", "max", "interval", "suffix"},
	"box":                     {"", "cellpadding", "cellspacing", "keep"},
	"hbox":                    {"cellpadding", "cellspacing", "keep"},
	"vbox":                    {"cellpadding", "cellspacing", "keep"},
	"groupbox":                {"cellpadding", "cellspacing", "keep"},
	"checkbox":                {"selected_value", "unselected_value", "ro_true", "ro_false"},
	"radio":                   {"set_value", "ro_true", "ro_false"},
	"customfields":            {"sub-type", "use-private", "field-names"},
	"date":                    {"data_format", "ignore"},
	"description":             {"bold-italic", "link", "activate_links", "label_for", "link_target", "link_popup_size", "link_title"},
	"button":                  {"image", "ro_image"},
	"buttononly":              {"image", "ro_image"},
	"link-entry":              {"only_app", "application_list"},
	"nextmatch-filterheader":  {"empty_label"},
	"nextmatch-customfilter":  {"widget_type", "widget_options"},
	"nextmatch-accountfilter": {"empty_label", "account_type", "ignore"},
}

var deprecatedAttrs = map[string]string{
	"needed": "required",
	"blur":   "placeholder",
}

// empty mirrors the loose emptiness legacy templates rely on: "" and "0".
func empty(s string) bool {
	return s == "" || s == "0"
}

func replaceSingleQuotes(src string, _ Options) (string, error) {
	return replaceAllSubmatch(singleQuoteAttr, src, func(m []string) (string, error) {
		return m[1] + `="` + strings.ReplaceAll(m[2], `"`, "&quot;") + `"` + m[3], nil
	})
}

func replaceMenulist(src string, _ Options) (string, error) {
	return menulistPopup.ReplaceAllString(src, "${2}<select${1}${3}"), nil
}

func replaceLegacyOptions(src string, _ Options) (string, error) {
	return replaceAllSubmatch(optionsAttr, src, func(m []string) (string, error) {
		widget, sub := m[1], m[2]
		if t := staticType.FindStringSubmatch(m[0]); t != nil {
			widget, sub, _ = strings.Cut(t[1], "-")
			if sub != "" {
				sub = "-" + sub
			}
		}

		names, ok := legacyOptionNames[widget+sub]
		if !ok {
			names, ok = legacyOptionNames[widget]
		}
		if !ok {
			return m[0], nil
		}

		values := CSVSplit(m[4], len(names))
		attrs := &Attrs{}
		for i, name := range names {
			if i >= len(values) || values[i] == "" || name == "" || name == "ignore" {
				continue
			}
			attrs.Set(name, values[i])
		}
		// select options are either multiple rows or an empty label
		if widget == "select" {
			if rows := intval(attrs.Get("empty_label")); rows > 0 {
				attrs.Set("multiple", strconv.Itoa(rows))
				attrs.Delete("empty_label")
			}
		}

		var options strings.Builder
		for _, at := range attrs.list {
			options.WriteString(at.name + `="` + at.value + `" `)
		}
		return strings.ReplaceAll(m[0], m[3], options.String()), nil
	})
}

func replaceSplit(src string, _ Options) (string, error) {
	return replaceAllSubmatch(splitTag, src, func(m []string) (string, error) {
		attrs, err := ParseAttrs(m[1])
		if err != nil {
			return "", err
		}

		if attrs.Get("orientation") == "h" {
			attrs.Set("vertical", "true")
		} else {
			attrs.Set("vertical", "false")
		}
		dock := attrs.Get("dock_side")
		switch {
		case strings.Contains(dock, "top") || strings.Contains(dock, "left"):
			attrs.Set("primary", "end")
		case strings.Contains(dock, "bottom") || strings.Contains(dock, "right"):
			attrs.Set("primary", "start")
		}
		attrs.Delete("dock_side")

		return "<et2-split " + attrs.String() + ">" + m[2] + "</et2-split>", nil
	})
}

func replaceExposeView(src string, _ Options) (string, error) {
	return exposeView.ReplaceAllString(src, "<et2-${1}-expose ${2} ${3}></et2-${1}-expose>"), nil
}

func replaceMultiline(src string, _ Options) (string, error) {
	return multilineText.ReplaceAllString(src, "<et2-textarea${1}${2}></et2-textarea>"), nil
}

func replaceNumeric(src string, _ Options) (string, error) {
	return replaceAllSubmatch(numericText, src, func(m []string) (string, error) {
		tag, typeAttr, typ, closer := m[1], m[3], m[4], m[6]
		// without the closing "/>" or "></textbox>"
		open := m[0][:len(m[0])-len(closer)-1]

		if tag == "textbox" && typ != "float" && typ != "int" && typ != "integer" {
			return "<et2-" + open[1:] + "></et2-textbox>", nil
		}

		open = strings.Replace(open, "<"+tag, "<et2-number", 1)
		if typeAttr != "" {
			open = strings.Replace(open, typeAttr, "", 1)
		}
		if tag != "float" && typ != "float" {
			open += ` precision="0"`
		}
		return open + "></et2-number>", nil
	})
}

// addPrefix returns a replacer adding "et2-" to a tag; web-components must
// not be self-closing so "<x/>" becomes "<et2-x></et2-x>".
func addPrefix(lastGroup int) replaceFunc {
	return func(m []string) (string, error) {
		rest := m[lastGroup]
		if strings.HasSuffix(rest, "/") {
			rest = rest[:len(rest)-1] + "></et2-" + m[3]
		}
		return "<" + m[2] + "et2-" + m[3] + rest + ">", nil
	}
}

func replaceLegacyPrefix(src string, _ Options) (string, error) {
	return replaceAllSubmatch(legacyPrefix, src, addPrefix(legacyPrefixLastGroup))
}

func replaceLink(src string, _ Options) (string, error) {
	return replaceAllSubmatch(linkTag, src, func(m []string) (string, error) {
		tag := "et2-link" + m[1]
		attrs, err := ParseAttrs(m[2])
		if err != nil {
			return "", err
		}

		if tag == "et2-link" || tag == "et2-link-entry" && !empty(attrs.Get("readonly")) {
			tag = "et2-link"
			if app, ok := attrs.Lookup("only_app"); ok {
				attrs.Set("app", app)
			}
			attrs.Delete("only_app", "readonly")
		}
		return "<" + tag + " " + attrs.String() + "></" + tag + ">", nil
	})
}

func replaceSelect(src string, _ Options) (string, error) {
	return replaceAllSubmatch(selectTag, src, func(m []string) (string, error) {
		tag, sub := m[1], m[2]
		attrs, err := ParseAttrs(m[3])
		if err != nil {
			return "", err
		}

		maxSelection := attrs.Get("maxSelection")
		if attrs.Has("tags") || tag == "taglist" && (empty(maxSelection) || intval(maxSelection) > 1) {
			attrs.Set("multiple", "true")
			attrs.Delete("tags")
		}
		// taglist defaulted these to true, et2-select defaults them to false
		if tag == "taglist" && sub == "" {
			if !attrs.Has("allowFreeEntries") {
				attrs.Set("allowFreeEntries", "true")
			}
			if !attrs.Has("editModeEnabled") {
				attrs.Set("editModeEnabled", "true")
			}
		}
		// no multiple="toggle" or expand_multiple_rows="N" in et2-select
		if attrs.Get("multiple") == "toggle" || !empty(attrs.Get("expand_multiple_rows")) {
			attrs.Set("multiple", "true")
			attrs.Delete("expand_multiple_rows")
		}
		if label := attrs.Get("empty_label"); !empty(label) && !empty(attrs.Get("multiple")) {
			attrs.Set("placeholder", label)
			attrs.Delete("empty_label")
		}
		// <select type="select-account" --> <et2-select-account
		if sub == "" {
			if typ, ok := attrs.Lookup("type"); ok {
				sub = selectTypeHead.ReplaceAllString(typ, "")
				attrs.Delete("type")
			}
		}

		return "<et2-select" + sub + " " + attrs.String() + ">" + m[5] + "</et2-select" + sub + ">", nil
	})
}

func replaceNextmatchHeaders(src string, _ Options) (string, error) {
	return replaceAllSubmatch(nextmatchHeader, src, func(m []string) (string, error) {
		kind := m[2]
		attrs, err := ParseAttrs(m[4])
		if err != nil {
			return "", err
		}

		if kind == "custom" {
			typ := attrs.Get("type")
			if empty(typ) {
				return m[0], nil
			}
			attrs.Set("widget_type", typ)
		}
		if kind == "sort" {
			return m[0], nil
		}
		attrs.Delete("type", "tags")
		if kind == "taglist" {
			kind = "filter"
		}

		return "<et2-nextmatch-header-" + kind + " " + attrs.String() + "/>", nil
	})
}

func replacePasswd(src string, _ Options) (string, error) {
	return passwdTag.ReplaceAllString(src, "<et2-password ${1}></et2-password>"), nil
}

func replaceButtons(src string, opts Options) (string, error) {
	inList := listTemplate.MatchString(opts.TemplateName)
	return replaceAllSubmatch(buttonTag, src, func(m []string) (string, error) {
		tag := "et2-button"
		attrs, err := ParseAttrs(m[2])
		if err != nil {
			return "", err
		}

		switch m[1] {
		case "buttononly":
			attrs.Set("noSubmit", "true")
		case "timestamper", "button-timestamp":
			tag += "-timestamp"
			attrs.Set("background_image", "true")
		}
		if nv := attrs.Get("novalidation"); nv == "true" || nv == "1" {
			attrs.Delete("novalidation")
			attrs.Set("noValidation", "true")
		}
		// images outside of nextmatch rows become et2-image
		bg := attrs.Get("background_image")
		if !empty(attrs.Get("image")) && (empty(bg) || bg == "false") && !inList {
			tag = "et2-image"
			attrs.Set("src", attrs.Get("image"))
			attrs.Delete("image")
			if !attrs.Has("onclick") && empty(attrs.Get("noSubmit")) {
				attrs.Set("onclick", "this.getInstanceManager().submit(this, undefined, "+attrs.Get("noValidation")+")")
			}
		}
		attrs.Delete("background_image")

		return "<" + tag + " " + attrs.String() + "></" + tag + ">", nil
	})
}

func replaceDates(src string, _ Options) (string, error) {
	return replaceAllSubmatch(dateTag, src, func(m []string) (string, error) {
		sub := m[1]
		if sub == "-time_today" {
			sub = "-time-today"
		}
		return "<et2-date" + sub + " " + m[2] + "></et2-date" + sub + ">", nil
	})
}

func replaceBoxes(src string, _ Options) (string, error) {
	if legacyOverlay.MatchString(src) {
		return src, nil
	}
	return replaceAllSubmatch(boxPrefix, src, addPrefix(boxPrefixLastGroup))
}

func rewriteAttributes(src string, _ Options) (string, error) {
	return replaceAllSubmatch(webComponent, src, func(m []string) (string, error) {
		inner := m[3]
		if strings.Trim(inner, " \t\r\n/") == "" {
			return m[0], nil
		}
		attrs, err := ParseAttrs(inner)
		if err != nil {
			return "", err
		}

		for _, at := range append([]attr(nil), attrs.list...) {
			name := at.name
			if repl, ok := deprecatedAttrs[name]; ok {
				attrs.Delete(name)
				name = repl
				attrs.Set(name, at.value)
			}
			if parts := nameSeparator.Split(name, -1); len(parts) > 1 {
				// parentNode is a DOM property
				if name == "parent_node" {
					parts[1] = "Id"
				}
				camel := parts[0]
				for _, p := range parts[1:] {
					camel += ucfirst(p)
				}
				attrs.Set(camel, at.value)
				attrs.Delete(name)
			}
		}

		if class, ok := attrs.Lookup("class"); ok {
			class = strings.TrimSpace(fullWidthClass.ReplaceAllString(class, " "))
			if empty(class) {
				attrs.Delete("class")
			} else {
				attrs.Set("class", class)
			}
		}
		// size is small|medium|large for web-components
		if size, ok := attrs.Lookup("size"); ok {
			attrs.Set("width", strconv.Itoa(intval(size))+"em")
			attrs.Delete("size")
		}

		rendered := attrs.String()
		if strings.HasSuffix(inner, "/") {
			rendered += "/"
		}
		return strings.ReplaceAll(m[0], inner, rendered), nil
	})
}

func ucfirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
