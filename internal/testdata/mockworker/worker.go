package mockworker

import (
	"github.com/stretchr/testify/mock"

	"retail-analytics-service/internal/model"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Enqueue(obs model.Observation) {
	m.Called(obs)
}

func (m *Worker) Shutdown() {
	m.Called()
}
