package mqtt

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// Readings contains all sensor readings that were published.
	Readings []Reading

	// ReadingPayloads contains the JSON payloads for readings.
	ReadingPayloads [][]byte

	// Alerts contains all alert events that were published.
	Alerts []AlertEvent

	// AlertPayloads contains the JSON payloads for alerts.
	AlertPayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by PublishReading and PublishAlert.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishReading records the reading.
func (f *FakePublisher) PublishReading(r Reading) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.Readings = append(f.Readings, r)

	payload, err := FormatReadingPayload(r)
	if err != nil {
		return err
	}
	f.ReadingPayloads = append(f.ReadingPayloads, payload)

	return nil
}

// PublishAlert records the alert event.
func (f *FakePublisher) PublishAlert(a AlertEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.Alerts = append(f.Alerts, a)

	payload, err := FormatAlertPayload(a)
	if err != nil {
		return err
	}
	f.AlertPayloads = append(f.AlertPayloads, payload)

	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Readings = nil
	f.ReadingPayloads = nil
	f.Alerts = nil
	f.AlertPayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
