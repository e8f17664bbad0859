package midi

// ClientNameHandler is the client name used for per-device connections
// opened by TryConnect, mirroring the source's CLIENT_NAME_HANDLER
// constant.
const ClientNameHandler = "rmidimap-handler"

// ClientNameEvent is the client name used for the hot-plug event watcher.
const ClientNameEvent = "rmidimap-events"

// TryConnect re-enumerates ports on an already-open probe client, narrows
// the result to exactly port's address and then to filter, and if that
// leaves at least one candidate opens a fresh handler client and connects
// it. Returns (nil, nil) if filter rejects every candidate (spec §4.E).
func TryConnect(probe Client, driver Driver, port Port, filter Filter) (Client, error) {
	all, err := probe.ListPorts()
	if err != nil {
		return nil, err
	}

	candidates := probe.FilterPorts(all, Filter{Kind: FilterAddr, Addr: port.Addr})
	candidates = probe.FilterPorts(candidates, filter)

	if len(candidates) == 0 {
		return nil, nil //nolint:nilnil
	}

	client, err := driver.Open(ClientNameHandler)
	if err != nil {
		return nil, err
	}

	if err := client.Connect(candidates[0].Addr, ClientNameHandler); err != nil {
		_ = client.Close()

		return nil, err
	}

	return client, nil
}
