package value_objects

import (
	"errors"
	"fmt"
	"strings"
)

// Resource is a protected domain noun. The set is closed: every resource a grant can
// reference is declared here.
type Resource string

const (
	ResourcePatients      Resource = "patients"
	ResourceAppointments  Resource = "appointments"
	ResourceDoctors       Resource = "doctors"
	ResourceNurses        Resource = "nurses"
	ResourceStaff         Resource = "staff"
	ResourceBilling       Resource = "billing"
	ResourcePayments      Resource = "payments"
	ResourcePrescriptions Resource = "prescriptions"
	ResourceLabTests      Resource = "lab_tests"
	ResourceRadiology     Resource = "radiology"
	ResourcePharmacy      Resource = "pharmacy"
	ResourceInventory     Resource = "inventory"
	ResourceDepartments   Resource = "departments"
	ResourceWards         Resource = "wards"
	ResourceBeds          Resource = "beds"
	ResourceAdmissions    Resource = "admissions"
	ResourceDischarges    Resource = "discharges"
	ResourceProcedures    Resource = "procedures"
	ResourceReports       Resource = "reports"
	ResourceSettings      Resource = "settings"
	ResourceUsers         Resource = "users"
	ResourceRoles         Resource = "roles"
	ResourcePermissions   Resource = "permissions"
	ResourceAuditLogs     Resource = "audit_logs"
	ResourceNotifications Resource = "notifications"
)

var allResources = []Resource{
	ResourcePatients,
	ResourceAppointments,
	ResourceDoctors,
	ResourceNurses,
	ResourceStaff,
	ResourceBilling,
	ResourcePayments,
	ResourcePrescriptions,
	ResourceLabTests,
	ResourceRadiology,
	ResourcePharmacy,
	ResourceInventory,
	ResourceDepartments,
	ResourceWards,
	ResourceBeds,
	ResourceAdmissions,
	ResourceDischarges,
	ResourceProcedures,
	ResourceReports,
	ResourceSettings,
	ResourceUsers,
	ResourceRoles,
	ResourcePermissions,
	ResourceAuditLogs,
	ResourceNotifications,
}

var validResources = func() map[Resource]bool {
	m := make(map[Resource]bool, len(allResources))
	for _, r := range allResources {
		m[r] = true
	}
	return m
}()

// ErrInvalidResource is returned for values outside the resource vocabulary.
var ErrInvalidResource = errors.New("invalid resource")

// NewResource normalises and validates a resource name.
func NewResource(resource string) (Resource, error) {
	normalized := strings.ToLower(strings.TrimSpace(resource))
	if normalized == "" {
		return "", fmt.Errorf("%w: resource cannot be empty", ErrInvalidResource)
	}

	r := Resource(normalized)
	if !validResources[r] {
		return "", fmt.Errorf("%w: %s", ErrInvalidResource, resource)
	}

	return r, nil
}

// AllResources returns the vocabulary in declaration order.
func AllResources() []Resource {
	out := make([]Resource, len(allResources))
	copy(out, allResources)
	return out
}

func (r Resource) String() string {
	return string(r)
}

func (r Resource) IsValid() bool {
	return validResources[r]
}

func (r Resource) Equals(other Resource) bool {
	return r == other
}
