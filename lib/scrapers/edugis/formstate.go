package edugis

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// FormState holds the server-issued hidden fields (__VIEWSTATE and
// friends) that must be echoed back verbatim for the portal to accept
// a submission as part of the same session. It is threaded from the
// landing page fetch into the query POST and thrown away afterwards,
// the portal issues fresh tokens per session.
type FormState map[string]string

func ExtractFormState(doc *goquery.Document) (FormState, error) {
	state := FormState{}
	doc.Find("input[type=hidden]").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		state[name] = input.AttrOr("value", "")
	})

	if len(state) == 0 {
		return nil, fmt.Errorf("%w: no hidden inputs in document", ErrFormState)
	}
	return state, nil
}
