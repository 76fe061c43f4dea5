package store

import "context"

// ClientScope exposes one (client, scope) slice of a Store as a key-value
// scope for the session store.
type ClientScope struct {
	store    Store
	clientID string
	scope    string
}

// NewClientScope returns the scope of clientID in st.
func NewClientScope(st Store, clientID, scope string) *ClientScope {
	return &ClientScope{store: st, clientID: clientID, scope: scope}
}

func (c *ClientScope) Get(ctx context.Context, key string) (string, bool, error) {
	return c.store.GetValue(ctx, c.clientID, c.scope, key)
}

func (c *ClientScope) Set(ctx context.Context, key, value string) error {
	return c.store.SetValue(ctx, c.clientID, c.scope, key, value)
}

func (c *ClientScope) Delete(ctx context.Context, key string) error {
	return c.store.DeleteValue(ctx, c.clientID, c.scope, key)
}
