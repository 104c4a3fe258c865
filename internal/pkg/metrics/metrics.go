// Package metrics defines the Prometheus collectors of the service.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/pkg/apperrors"
)

// Relationship kinds and actions used as label values
const (
	RelationEnrollment = "enrollment"
	RelationAssignment = "assignment"
	RelationDepartment = "department"

	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionSet    = "set"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registry_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	IdentifiersIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_identifiers_issued_total",
			Help: "Identifiers issued per series",
		},
		[]string{"series"},
	)

	RelationshipChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_relationship_changes_total",
			Help: "Relationship mutations by relation, action and result",
		},
		[]string{"relation", "action", "result"},
	)

	CascadeDeletes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_cascade_deletes_total",
			Help: "Cascading deletes by entity",
		},
		[]string{"entity"},
	)

	CascadeDependents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_cascade_dependents_total",
			Help: "Dependents touched by cascading deletes, by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordHttpRequest(method, endpoint, status string, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordIdentifierIssued(series string) {
	IdentifiersIssued.WithLabelValues(series).Inc()
}

// Result maps an operation error to a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperrors.IsNotFound(err):
		return "not_found"
	case apperrors.IsConflict(err):
		return "conflict"
	case apperrors.IsInvalidInput(err):
		return "invalid"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return "unauthorized"
	}
	return "error"
}

func RecordRelationshipChange(relation, action string, err error) {
	RelationshipChanges.WithLabelValues(relation, action, Result(err)).Inc()
}

func RecordCourseCascade() {
	CascadeDeletes.WithLabelValues("course").Inc()
}

func RecordDepartmentCascade(report *models.CascadeReport) {
	CascadeDeletes.WithLabelValues("department").Inc()
	CascadeDependents.WithLabelValues("student_orphaned").Add(float64(report.OrphanedStudents))
	CascadeDependents.WithLabelValues("lecturer_orphaned").Add(float64(report.OrphanedLecturers))
	CascadeDependents.WithLabelValues("course_adopted").Add(float64(len(report.AdoptedCourses)))
	CascadeDependents.WithLabelValues("course_deleted").Add(float64(len(report.DeletedCourses)))
}
