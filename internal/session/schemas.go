package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// commandSpec declares the payload surface of one (namespace, action)
// pair. Anything outside fields is rejected; the schema closes the object
// with additionalProperties:false.
type commandSpec struct {
	fields   []string
	required []string
}

// commandSpecs is the complete outgoing command surface. There is no
// free-form message construction anywhere else.
var commandSpecs = map[string]commandSpec{
	"control/join":       {fields: []string{"display_name"}, required: []string{"display_name"}},
	"control/enter_room": {},
	"control/raise_hand": {},
	"control/lower_hand": {},

	"media/grant_presenter_role":  {fields: []string{"participant_ids"}, required: []string{"participant_ids"}},
	"media/revoke_presenter_role": {fields: []string{"participant_ids"}, required: []string{"participant_ids"}},
	"media/moderator_mute":        {fields: []string{"targets", "force"}, required: []string{"targets"}},
	"media/publish_complete":      {fields: []string{"media_session_type"}},

	"breakout/start": {fields: []string{"rooms", "duration_secs", "assignments"}, required: []string{"rooms"}},
	"breakout/stop":  {},

	"automod/start": {
		fields:   []string{"selection_strategy", "consider_hand_raise", "time_limit_secs", "allow_double_selection"},
		required: []string{"selection_strategy"},
	},
	"automod/stop":        {},
	"automod/select_next": {},
	"automod/pass":        {},

	"legal_vote/vote": {fields: []string{"vote_id", "option"}, required: []string{"vote_id", "option"}},

	"polls/vote":   {fields: []string{"poll_id", "choice_id"}, required: []string{"poll_id", "choice_id"}},
	"polls/finish": {fields: []string{"id"}, required: []string{"id"}},

	"moderation/accept":               {fields: []string{"target"}, required: []string{"target"}},
	"moderation/kick":                 {fields: []string{"target"}, required: []string{"target"}},
	"moderation/enable_waiting_room":  {},
	"moderation/disable_waiting_room": {},
	"moderation/enable_raise_hands":   {},
	"moderation/disable_raise_hands":  {},
	"moderation/reset_raised_hands":   {},

	"meeting_notes/select_writer":   {fields: []string{"participant_ids"}, required: []string{"participant_ids"}},
	"meeting_notes/deselect_writer": {fields: []string{"participant_ids"}, required: []string{"participant_ids"}},
	"meeting_notes/generate_pdf":    {},

	"chat/send_message":  {fields: []string{"scope", "target", "content"}, required: []string{"scope", "content"}},
	"chat/clear_history": {},

	"timer/start":             {fields: []string{"kind", "duration_secs", "title", "ready_check_enabled"}, required: []string{"kind"}},
	"timer/stop":              {fields: []string{"timer_id", "reason"}, required: []string{"timer_id"}},
	"timer/ready_to_continue": {fields: []string{"timer_id", "status"}, required: []string{"timer_id", "status"}},

	"whiteboard/initialize":   {},
	"whiteboard/generate_pdf": {},

	"recording/set_consent":  {fields: []string{"consent"}, required: []string{"consent"}},
	"recording/start_stream": {fields: []string{"target"}, required: []string{"target"}},
	"recording/stop_stream":  {fields: []string{"target"}, required: []string{"target"}},
}

var (
	schemaOnce      sync.Once
	compiledSchemas map[string]*jsonschema.Schema
)

// commandSchema returns the compiled payload schema for ns/action.
func commandSchema(ns, action string) (*jsonschema.Schema, bool) {
	schemaOnce.Do(compileCommandSchemas)
	schema, ok := compiledSchemas[ns+"/"+action]
	return schema, ok
}

func compileCommandSchemas() {
	compiledSchemas = make(map[string]*jsonschema.Schema, len(commandSpecs))
	for key, spec := range commandSpecs {
		compiler := jsonschema.NewCompiler()
		url := "meet://commands/" + key
		src := specSchemaJSON(strings.SplitN(key, "/", 2)[1], spec)
		if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
			panic(fmt.Sprintf("command schema %s: %v", key, err))
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			panic(fmt.Sprintf("command schema %s: %v", key, err))
		}
		compiledSchemas[key] = schema
	}
}

// specSchemaJSON renders one closed object schema: the action constant,
// the declared fields, nothing else.
func specSchemaJSON(action string, spec commandSpec) string {
	properties := map[string]any{
		"action": map[string]any{"const": action},
	}
	for _, f := range spec.fields {
		properties[f] = map[string]any{}
	}
	required := append([]string{"action"}, spec.required...)

	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(raw)
}
