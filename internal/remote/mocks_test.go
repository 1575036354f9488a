package remote

import "github.com/stretchr/testify/mock"

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) AddPeer(info PeerInfo) error {
	args := m.Called(info)
	return args.Error(0)
}

type MockIndicator struct {
	mock.Mock
}

func (m *MockIndicator) Set(on bool) {
	m.Called(on)
}
