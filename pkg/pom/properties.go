package pom

import (
	"encoding/xml"
	"strings"
)

// Property is a single entry of a <properties> block.
type Property struct {
	Name  string
	Value string
}

// Properties is an ordered list of POM properties. Order is preserved from
// the source file; names are unique after [Properties.Set].
type Properties []Property

// Get returns the value of name and whether it is defined.
func (p Properties) Get(name string) (string, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

// Set defines name, replacing an existing value in place.
func (p *Properties) Set(name, value string) {
	for i := range *p {
		if (*p)[i].Name == name {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Property{Name: name, Value: value})
}

// Map returns the properties as a map.
func (p Properties) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, prop := range p {
		m[prop.Name] = prop.Value
	}
	return m
}

// UnmarshalXML reads arbitrary child elements as name/value pairs.
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			p.Set(t.Name.Local, strings.TrimSpace(value))
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML writes each property as a child element.
func (p Properties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if len(p) == 0 {
		return nil
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, prop := range p {
		if err := e.EncodeElement(prop.Value, xml.StartElement{Name: xml.Name{Local: prop.Name}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}
