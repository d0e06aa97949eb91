package app

// Reason explains why an execution did not open a URL
type Reason string

const (
	ReasonHardLimitExceeded Reason = "hard-limit-exceeded"
	ReasonNotFound          Reason = "not-found"
	ReasonUnexpectedError   Reason = "unexpected-error"
	// ReasonEmptySelection is reported by the shortcut paths, which refuse to run
	// without text
	ReasonEmptySelection Reason = "empty-selection"
)

// Outcome is the closed set of execution results
type Outcome int

const (
	Opened Outcome = iota
	RejectedTooLong
	RejectedNotFound
	RejectedUnexpected
	RejectedEmptySelection
)

// user-facing notices, shown through the Notifier
const (
	MessageTooLong        = "選択テキストが長すぎるため、URLに挿入できません。内容を短くするか、分割してください。"
	MessageEmptySelection = "テキストを選択してから実行してください。"
	MessageNoDefault      = "既定テンプレートが設定されていません。templater templates set-default で設定してください。"
)

// RuntimeOverrides replace a template's runtime flags for a single execution;
// nil fields keep the template value
type RuntimeOverrides struct {
	HintsSearch   *bool   `json:"hintsSearch,omitempty"`
	TemporaryChat *bool   `json:"temporaryChat,omitempty"`
	Model         *string `json:"model,omitempty"`
}

// Overrides adjust a template for a single execution
type Overrides struct {
	// TemplateURL is used when it is non-blank after trimming
	TemplateURL *string `json:"templateUrl,omitempty"`
	// QueryTemplate is used when it is non-empty
	QueryTemplate *string           `json:"queryTemplate,omitempty"`
	Runtime       *RuntimeOverrides `json:"runtime,omitempty"`
}

// InlineTemplate describes an ad hoc template, or edits layered on a stored one
type InlineTemplate struct {
	URL           *string `json:"url,omitempty"`
	QueryTemplate *string `json:"queryTemplate,omitempty"`
	HintsSearch   *bool   `json:"hintsSearch,omitempty"`
	TemporaryChat *bool   `json:"temporaryChat,omitempty"`
	Model         *string `json:"model,omitempty"`
	CustomModel   *string `json:"customModel,omitempty"`
}

// Request asks for one template execution
type Request struct {
	TemplateID string          `json:"templateId"`
	Text       string          `json:"text"`
	Overrides  *Overrides      `json:"overrides,omitempty"`
	Inline     *InlineTemplate `json:"inlineTemplate,omitempty"`
}

// Response reports the result of an execution
type Response struct {
	Success bool   `json:"success"`
	Reason  Reason `json:"reason,omitempty"`
}

func failure(reason Reason) Response {
	return Response{Success: false, Reason: reason}
}

// Outcome maps the response onto the closed outcome set; unknown reasons count
// as unexpected
func (r Response) Outcome() Outcome {
	if r.Success {
		return Opened
	}
	switch r.Reason {
	case ReasonHardLimitExceeded:
		return RejectedTooLong
	case ReasonNotFound:
		return RejectedNotFound
	case ReasonEmptySelection:
		return RejectedEmptySelection
	}
	return RejectedUnexpected
}

func (o Outcome) String() string {
	switch o {
	case Opened:
		return "opened"
	case RejectedTooLong:
		return "rejected: too long"
	case RejectedNotFound:
		return "rejected: not found"
	case RejectedEmptySelection:
		return "rejected: empty selection"
	}
	return "rejected: unexpected error"
}
