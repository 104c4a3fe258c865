package events

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	event := New(StudentEnrolled, map[string]string{"studentId": "STD-0000001", "courseId": "COURSE-00001"})

	msg, err := Encode(event)
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, StudentEnrolled, msg.Type)

	var decoded struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, StudentEnrolled, decoded.Type)
	assert.Equal(t, "COURSE-00001", decoded.Data["courseId"])
}

func TestEncodeRejectsUnencodableData(t *testing.T) {
	_, err := Encode(New(CourseDeleted, make(chan int)))
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), New(CourseDeleted, nil)))
	assert.NoError(t, p.Close())
}
