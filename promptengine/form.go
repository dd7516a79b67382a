package promptengine

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/drake/scriptkit/protocol"
)

var inputTypeMap = map[string]protocol.FieldType{
	"text":     protocol.FieldText,
	"password": protocol.FieldPassword,
	"email":    protocol.FieldEmail,
	"number":   protocol.FieldNumber,
	"date":     protocol.FieldDate,
	"time":     protocol.FieldTime,
	"url":      protocol.FieldURL,
	"tel":      protocol.FieldTel,
	"color":    protocol.FieldColor,
}

var skippedInputTypes = map[string]bool{
	"hidden": true, "submit": true, "button": true,
}

// ParseForm extracts, in document order, every named <input>, <textarea>,
// and <select> per §4.5.1. Hidden/submit/button inputs are skipped.
func ParseForm(body string) ([]protocol.Field, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	var fields []protocol.Field
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "input":
				if f, ok := parseInput(n); ok {
					fields = append(fields, f)
				}
			case "textarea":
				if f, ok := parseTextarea(n); ok {
					fields = append(fields, f)
				}
			case "select":
				if f, ok := parseSelect(n); ok {
					fields = append(fields, f)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if len(fields) > protocol.MaxFields {
		fields = fields[:protocol.MaxFields]
	}
	return fields, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func parseInput(n *html.Node) (protocol.Field, bool) {
	name, ok := attr(n, "name")
	if !ok || name == "" {
		return protocol.Field{}, false
	}
	typ, _ := attr(n, "type")
	if typ == "" {
		typ = "text"
	}
	typ = strings.ToLower(typ)
	if skippedInputTypes[typ] {
		return protocol.Field{}, false
	}

	value, _ := attr(n, "value")
	if typ == "checkbox" {
		_, checked := attr(n, "checked")
		if checked {
			value = "true"
		} else {
			value = "false"
		}
		return protocol.Field{Name: name, Type: protocol.FieldText, Value: value}, true
	}

	// datetime-local/month/week are variants of text inputs not in the
	// spec's enumerated FieldType set; fold them to text so the field
	// still round-trips its value.
	ft, known := inputTypeMap[typ]
	if !known {
		ft = protocol.FieldText
	}

	placeholder, _ := attr(n, "placeholder")
	return protocol.Field{Name: name, Type: ft, Placeholder: placeholder, Value: value}, true
}

func parseTextarea(n *html.Node) (protocol.Field, bool) {
	name, ok := attr(n, "name")
	if !ok || name == "" {
		return protocol.Field{}, false
	}
	placeholder, _ := attr(n, "placeholder")
	value := textContent(n)
	return protocol.Field{Name: name, Type: protocol.FieldText, Placeholder: placeholder, Value: value}, true
}

func parseSelect(n *html.Node) (protocol.Field, bool) {
	name, ok := attr(n, "name")
	if !ok || name == "" {
		return protocol.Field{}, false
	}
	value := ""
	var walk func(*html.Node)
	walk = func(opt *html.Node) {
		if opt.Type == html.ElementNode && opt.Data == "option" {
			_, selected := attr(opt, "selected")
			v, hasVal := attr(opt, "value")
			if !hasVal {
				v = textContent(opt)
			}
			if selected || value == "" {
				value = v
			}
		}
		for c := opt.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return protocol.Field{Name: name, Type: protocol.FieldText, Value: value}, true
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
