// Package cms implements the content lifecycle: validation, slug assignment,
// asset placement and persistence for products, blogs, banners and
// testimonials. Handlers stay thin; everything with an invariant lives here.
package cms

import (
	"strings"

	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"

	"github.com/craftbond/sitecms/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TopicContentChanged is published after any committed content mutation so
// read-side caches (feeds, sitemap) can invalidate. Payload is the entity
// kind: "product", "blog", "banner", "testimonial".
const TopicContentChanged = "cms.content.changed"

func publish(bus EventBus.Bus, kind string) {
	if bus != nil {
		bus.Publish(TopicContentChanged, kind)
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// parseQAs decodes the questionsAndAnswers form field (a JSON array of
// {question, answer}) and rejects blank pairs.
func parseQAs(raw string) (domain.QAList, error) {
	if blank(raw) {
		return domain.QAList{}, nil
	}
	var qas domain.QAList
	if err := json.UnmarshalFromString(raw, &qas); err != nil {
		return nil, invalid("questionsAndAnswers", "must be a JSON array of {question, answer} pairs")
	}
	for i := range qas {
		qas[i].Question = strings.TrimSpace(qas[i].Question)
		qas[i].Answer = strings.TrimSpace(qas[i].Answer)
		if qas[i].Question == "" || qas[i].Answer == "" {
			return nil, invalid("questionsAndAnswers", "each item must include a question and answer")
		}
	}
	return qas, nil
}
