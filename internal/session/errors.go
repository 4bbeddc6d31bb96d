package session

// Error is a single validation failure. Field is empty for errors
// attached to the general slot rather than to a specific field.
type Error struct {
	Field   string `json:"field,omitempty"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ErrorList is the ordered set of validation failures for one attempt.
type ErrorList []Error

func (l *ErrorList) add(field, key, message string) {
	*l = append(*l, Error{Field: field, Key: key, Message: message})
}

// Any reports whether the list holds at least one error.
func (l ErrorList) Any() bool {
	return len(l) > 0
}

// On returns the messages recorded against the given field, in order.
// Pass "" for the general slot.
func (l ErrorList) On(field string) []string {
	var msgs []string
	for _, e := range l {
		if e.Field == field {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

// General returns the messages in the general slot.
func (l ErrorList) General() []string {
	return l.On("")
}

// credentialsPolicy is the single emission point for lookup-miss and
// invalid-password errors. Both call sites go through here so that the
// two stay textually indistinguishable whenever generalization is on;
// a caller must not be able to tell "no such account" from "wrong
// password" by the error alone.
type credentialsPolicy struct {
	cfg *Config
}

func (p credentialsPolicy) emit(errs *ErrorList, field, key string) {
	if !p.cfg.GeneralizeCredentialsErrors {
		errs.add(field, key, p.cfg.Messages.Message(key))
		return
	}
	errs.add("", KeyGeneralCredentials, p.generalMessage())
}

func (p credentialsPolicy) generalMessage() string {
	if p.cfg.GeneralCredentialsErrorMessage != "" {
		return p.cfg.GeneralCredentialsErrorMessage
	}
	if msg := p.cfg.Messages.Message(KeyGeneralCredentials); msg != "" {
		return msg
	}
	return humanize(p.cfg.LoginField) + "/Password combination is not valid"
}
