package repository

// Server holds the credentials for the repository (or mirror) with the same id.
type Server struct {
	ID       string            `toml:"id"`
	Username string            `toml:"username"`
	Password string            `toml:"password"`
	Headers  map[string]string `toml:"headers"`
}

// Servers indexes credentials by repository id.
type Servers map[string]Server

// NewServers builds the index. Later entries replace earlier ones with the same id.
func NewServers(servers ...Server) Servers {
	out := make(Servers, len(servers))
	for _, s := range servers {
		out[s.ID] = s
	}
	return out
}

// For returns the credentials for ep, if configured.
func (s Servers) For(ep Endpoint) (Server, bool) {
	srv, ok := s[ep.ID]
	return srv, ok
}
