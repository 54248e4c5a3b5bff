package enrichment

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

type Format uint8

const (
	FormatHTML Format = iota
	FormatText
)

func (f Format) ContentType() string {
	if f == FormatText {
		return "text/plain; charset=utf-8"
	}
	return "text/html; charset=utf-8"
}

const (
	successHTML = `<style>
	#pthanks a { text-overflow:ellipsis }
</style>
<h2 id="h2thanks">Your API Response</h2>
<p id="pthanks">{{range .}}{{.}}<br>{{end}}</p>
`
	errorHTML = `<h2 id="h2thanks">We're Sorry</h2>
<p id="pthanks">There has been an error in displaying your API Response. We have been alerted to the problem and will send your response to you in a separate email.</p>
`
	successText = `Your API Response

{{range .}}{{.}}
{{end}}`
	errorText = `We're Sorry

There has been an error in displaying your API Response. We have been alerted to the problem and will send your response to you in a separate email.
`
)

var (
	successHTMLTmpl = htmltemplate.Must(htmltemplate.New("success").Parse(successHTML))
	errorHTMLTmpl   = htmltemplate.Must(htmltemplate.New("error").Parse(errorHTML))
	successTextTmpl = texttemplate.Must(texttemplate.New("success").Parse(successText))
	errorTextTmpl   = texttemplate.Must(texttemplate.New("error").Parse(errorText))
)

// renderSuccess prints one line per response, each followed by a line
// break. HTML output escapes the lines unless rawHTML is set, in which case
// the API's markup is written as is.
func renderSuccess(format Format, lines []string, rawHTML bool) (string, error) {
	var buf bytes.Buffer
	var err error
	switch {
	case format == FormatText:
		err = successTextTmpl.Execute(&buf, lines)
	case rawHTML:
		trusted := make([]htmltemplate.HTML, len(lines))
		for i, l := range lines {
			trusted[i] = htmltemplate.HTML(l) //nolint:gosec // opt-in via API_RESPONSES_HTML
		}
		err = successHTMLTmpl.Execute(&buf, trusted)
	default:
		err = successHTMLTmpl.Execute(&buf, lines)
	}
	return buf.String(), err
}

func renderError(format Format) string {
	var buf bytes.Buffer
	if format == FormatText {
		_ = errorTextTmpl.Execute(&buf, nil)
	} else {
		_ = errorHTMLTmpl.Execute(&buf, nil)
	}
	return buf.String()
}
