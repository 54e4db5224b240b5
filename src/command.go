package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ryansname/gridsizer/src/portfolio"
)

// Op is the operation a command performs on a session
type Op int

const (
	OpShow Op = iota
	OpSelect
	OpSet
	OpSave
	OpCancel
	OpSetGlobal
	OpAttach
)

func (o Op) String() string {
	switch o {
	case OpShow:
		return "show"
	case OpSelect:
		return "select"
	case OpSet:
		return "set"
	case OpSave:
		return "save"
	case OpCancel:
		return "cancel"
	case OpSetGlobal:
		return "global"
	case OpAttach:
		return "attach"
	default:
		return "unknown"
	}
}

// TargetLoad is the attach target for the load profile
const TargetLoad = "load"

// Command is a request against one session, from the console or MQTT
type Command struct {
	Session string
	Op      Op
	Target  string // component kind, TargetLoad, or empty
	Fields  map[string]string
	Reply   chan<- Reply // nil when the caller does not wait
}

// Reply is the session state after a command
type Reply struct {
	Err      error
	Snapshot portfolio.Snapshot
	Draft    map[string]string
}

// parseCommandTopic turns an MQTT message into a Command. Topics:
//
//	<prefix>/<session>/save/<kind>
//	<prefix>/<session>/attach/<kind|load>
//	<prefix>/<session>/global
//	<prefix>/<session>/select
//	<prefix>/<session>/refresh
func parseCommandTopic(prefix, topic string, payload []byte) (Command, error) {
	rest, ok := strings.CutPrefix(topic, prefix+"/")
	if !ok {
		return Command{}, fmt.Errorf("topic %s outside prefix %s", topic, prefix)
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[0] == "" {
		return Command{}, fmt.Errorf("malformed command topic: %s", topic)
	}

	fields, err := parseFieldPayload(payload)
	if err != nil {
		return Command{}, fmt.Errorf("payload on %s: %w", topic, err)
	}

	cmd := Command{Session: parts[0], Fields: fields}
	switch {
	case parts[1] == "save" && len(parts) == 3:
		cmd.Op = OpSave
		cmd.Target = parts[2]
	case parts[1] == "attach" && len(parts) == 3:
		cmd.Op = OpAttach
		cmd.Target = parts[2]
	case parts[1] == "global" && len(parts) == 2:
		cmd.Op = OpSetGlobal
	case parts[1] == "refresh" && len(parts) == 2:
		cmd.Op = OpShow
		cmd.Fields = nil
	case parts[1] == "select" && len(parts) == 2:
		cmd.Op = OpSelect
		cmd.Target = fields["component"]
		cmd.Fields = nil
	default:
		return Command{}, fmt.Errorf("unknown command topic: %s", topic)
	}
	return cmd, nil
}

// parseFieldPayload flattens a JSON object into string field values.
// An empty payload is an empty field set.
func parseFieldPayload(payload []byte) (map[string]string, error) {
	fields := make(map[string]string)
	if len(strings.TrimSpace(string(payload))) == 0 {
		return fields, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			fields[k] = strconv.FormatBool(val)
		case nil:
			fields[k] = ""
		default:
			return nil, fmt.Errorf("field %s: unsupported value %v", k, v)
		}
	}
	return fields, nil
}

// commandTopics lists the subscriptions covering every command topic
func commandTopics(prefix string) []string {
	return []string{
		prefix + "/+/save/+",
		prefix + "/+/attach/+",
		prefix + "/+/global",
		prefix + "/+/select",
		prefix + "/+/refresh",
	}
}
