package guest

import (
	"encoding/json"

	"github.com/drake/scriptkit/protocol"
)

// SetInputObject records the pre-supplied input object for a non-interactive
// invocation, retrievable via Input (§4.6.4).
func (c *Client) SetInputObject(raw json.RawMessage) {
	c.mu.Lock()
	c.inputObj = raw
	c.mu.Unlock()
}

// Input returns the pre-supplied input object, decoded into v.
func (c *Client) Input(v interface{}) error {
	c.mu.Lock()
	raw := c.inputObj
	c.mu.Unlock()
	if raw == nil {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// Output merges partial into the accumulated output object and streams the
// full object out as a scriptOutput side effect (§4.6.4).
func (c *Client) Output(partial map[string]interface{}) {
	c.outputMu.Lock()
	for k, v := range partial {
		c.outputObj[k] = v
	}
	snapshot := make(map[string]interface{}, len(c.outputObj))
	for k, v := range c.outputObj {
		snapshot[k] = v
	}
	c.outputMu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	_ = c.send("scriptOutput", &protocol.ScriptOutput{Data: data})
}

// Schema records the expected input/output shape globally for
// introspection; the host never validates against it, it is descriptive.
type Schema struct {
	Input  map[string]string
	Output map[string]string
}

var registeredSchema Schema

// SetSchema records the expected input/output shape for introspection
// tooling outside this process (§4.6.4).
func SetSchema(s Schema) { registeredSchema = s }

// GetSchema returns the last schema registered via SetSchema.
func GetSchema() Schema { return registeredSchema }

// KVGet reads from the guest's small in-memory key/value map (process-local
// state permitted by §4.6, distinct from the host-backed Store operations).
func (c *Client) KVGet(key string) (json.RawMessage, bool) {
	c.kvMu.Lock()
	defer c.kvMu.Unlock()
	v, ok := c.kv[key]
	return v, ok
}

// KVSet writes to the guest's in-memory key/value map.
func (c *Client) KVSet(key string, value json.RawMessage) {
	c.kvMu.Lock()
	c.kv[key] = value
	c.kvMu.Unlock()
}
