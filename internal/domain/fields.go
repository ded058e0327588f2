package domain

import (
	"database/sql/driver"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StringList is an ordered list of strings persisted as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.MarshalToString([]string(l))
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(l))
	case string:
		return json.UnmarshalFromString(v, (*[]string)(l))
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Contains reports whether name is an element of the list.
func (l StringList) Contains(name string) bool {
	for _, v := range l {
		if v == name {
			return true
		}
	}
	return false
}

// QA is a single question/answer pair on a product page.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QAList is persisted as a JSON text column.
type QAList []QA

func (l QAList) Value() (driver.Value, error) {
	if l == nil {
		l = QAList{}
	}
	return json.MarshalToString([]QA(l))
}

func (l *QAList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = QAList{}
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]QA)(l))
	case string:
		return json.UnmarshalFromString(v, (*[]QA)(l))
	default:
		return fmt.Errorf("cannot scan %T into QAList", src)
	}
}
