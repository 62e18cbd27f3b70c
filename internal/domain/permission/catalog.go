package permission

import (
	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
)

// adminResources is the curated resource set of the ADMIN template.
var adminResources = []vo.Resource{
	vo.ResourcePatients,
	vo.ResourceAppointments,
	vo.ResourceDoctors,
	vo.ResourceNurses,
	vo.ResourceStaff,
	vo.ResourceBilling,
	vo.ResourcePayments,
	vo.ResourceDepartments,
	vo.ResourceWards,
	vo.ResourceBeds,
	vo.ResourceReports,
	vo.ResourceSettings,
	vo.ResourceUsers,
	vo.ResourceNotifications,
}

var adminActions = []vo.Action{
	vo.ActionCreate,
	vo.ActionRead,
	vo.ActionUpdate,
	vo.ActionDelete,
	vo.ActionList,
	vo.ActionExport,
}

func p(resource vo.Resource, action vo.Action) vo.Pair {
	return vo.MustPair(resource, action)
}

// DefaultTemplates returns the built-in catalog in seeding order.
func DefaultTemplates() []Template {
	return []Template{
		{Name: SuperAdminTemplate, Pairs: vo.CrossProduct(vo.AllResources(), vo.AllActions())},
		{Name: "ADMIN", Pairs: vo.CrossProduct(adminResources, adminActions)},
		{Name: "DOCTOR", Pairs: []vo.Pair{
			p(vo.ResourcePatients, vo.ActionRead),
			p(vo.ResourcePatients, vo.ActionList),
			p(vo.ResourcePatients, vo.ActionUpdate),
			p(vo.ResourceAppointments, vo.ActionRead),
			p(vo.ResourceAppointments, vo.ActionList),
			p(vo.ResourceAppointments, vo.ActionUpdate),
			p(vo.ResourcePrescriptions, vo.ActionCreate),
			p(vo.ResourcePrescriptions, vo.ActionRead),
			p(vo.ResourcePrescriptions, vo.ActionUpdate),
			p(vo.ResourceLabTests, vo.ActionCreate),
			p(vo.ResourceLabTests, vo.ActionRead),
			p(vo.ResourceRadiology, vo.ActionCreate),
			p(vo.ResourceRadiology, vo.ActionRead),
			p(vo.ResourceProcedures, vo.ActionCreate),
			p(vo.ResourceProcedures, vo.ActionRead),
			p(vo.ResourceProcedures, vo.ActionUpdate),
			p(vo.ResourceAdmissions, vo.ActionCreate),
			p(vo.ResourceAdmissions, vo.ActionRead),
			p(vo.ResourceDischarges, vo.ActionCreate),
			p(vo.ResourceReports, vo.ActionRead),
		}},
		{Name: "NURSE", Pairs: []vo.Pair{
			p(vo.ResourcePatients, vo.ActionRead),
			p(vo.ResourcePatients, vo.ActionList),
			p(vo.ResourceAppointments, vo.ActionRead),
			p(vo.ResourceAppointments, vo.ActionList),
			p(vo.ResourcePrescriptions, vo.ActionRead),
			p(vo.ResourceLabTests, vo.ActionRead),
			p(vo.ResourceRadiology, vo.ActionRead),
			p(vo.ResourceProcedures, vo.ActionRead),
			p(vo.ResourceAdmissions, vo.ActionRead),
			p(vo.ResourceAdmissions, vo.ActionUpdate),
			p(vo.ResourceWards, vo.ActionRead),
			p(vo.ResourceBeds, vo.ActionRead),
			p(vo.ResourceBeds, vo.ActionUpdate),
		}},
		{Name: "RECEPTIONIST", Pairs: []vo.Pair{
			p(vo.ResourcePatients, vo.ActionCreate),
			p(vo.ResourcePatients, vo.ActionRead),
			p(vo.ResourcePatients, vo.ActionUpdate),
			p(vo.ResourcePatients, vo.ActionList),
			p(vo.ResourceAppointments, vo.ActionCreate),
			p(vo.ResourceAppointments, vo.ActionRead),
			p(vo.ResourceAppointments, vo.ActionUpdate),
			p(vo.ResourceAppointments, vo.ActionList),
			p(vo.ResourceBilling, vo.ActionRead),
			p(vo.ResourceBilling, vo.ActionList),
			p(vo.ResourcePayments, vo.ActionCreate),
			p(vo.ResourcePayments, vo.ActionRead),
		}},
		{Name: "PHARMACIST", Pairs: []vo.Pair{
			p(vo.ResourcePatients, vo.ActionRead),
			p(vo.ResourcePrescriptions, vo.ActionRead),
			p(vo.ResourcePrescriptions, vo.ActionList),
			p(vo.ResourcePharmacy, vo.ActionCreate),
			p(vo.ResourcePharmacy, vo.ActionRead),
			p(vo.ResourcePharmacy, vo.ActionUpdate),
			p(vo.ResourcePharmacy, vo.ActionList),
			p(vo.ResourceInventory, vo.ActionRead),
			p(vo.ResourceInventory, vo.ActionUpdate),
			p(vo.ResourceInventory, vo.ActionList),
		}},
		{Name: "LAB_TECHNICIAN", Pairs: []vo.Pair{
			p(vo.ResourcePatients, vo.ActionRead),
			p(vo.ResourceLabTests, vo.ActionRead),
			p(vo.ResourceLabTests, vo.ActionUpdate),
			p(vo.ResourceLabTests, vo.ActionList),
			p(vo.ResourceReports, vo.ActionCreate),
			p(vo.ResourceReports, vo.ActionRead),
		}},
		{Name: "RADIOLOGIST", Pairs: []vo.Pair{
			p(vo.ResourcePatients, vo.ActionRead),
			p(vo.ResourceRadiology, vo.ActionRead),
			p(vo.ResourceRadiology, vo.ActionUpdate),
			p(vo.ResourceRadiology, vo.ActionList),
			p(vo.ResourceReports, vo.ActionCreate),
			p(vo.ResourceReports, vo.ActionRead),
		}},
		{Name: "PATIENT", Pairs: []vo.Pair{
			p(vo.ResourceAppointments, vo.ActionCreate),
			p(vo.ResourceAppointments, vo.ActionRead),
			p(vo.ResourceAppointments, vo.ActionList),
			p(vo.ResourcePrescriptions, vo.ActionRead),
			p(vo.ResourceLabTests, vo.ActionRead),
			p(vo.ResourceRadiology, vo.ActionRead),
			p(vo.ResourceBilling, vo.ActionRead),
			p(vo.ResourcePayments, vo.ActionRead),
			p(vo.ResourceReports, vo.ActionRead),
		}},
		{Name: "ACCOUNTANT", Pairs: []vo.Pair{
			p(vo.ResourceBilling, vo.ActionCreate),
			p(vo.ResourceBilling, vo.ActionRead),
			p(vo.ResourceBilling, vo.ActionUpdate),
			p(vo.ResourceBilling, vo.ActionList),
			p(vo.ResourceBilling, vo.ActionExport),
			p(vo.ResourcePayments, vo.ActionCreate),
			p(vo.ResourcePayments, vo.ActionRead),
			p(vo.ResourcePayments, vo.ActionUpdate),
			p(vo.ResourcePayments, vo.ActionList),
			p(vo.ResourcePayments, vo.ActionExport),
			p(vo.ResourceReports, vo.ActionRead),
			p(vo.ResourceReports, vo.ActionExport),
		}},
	}
}

// DefaultRegistry builds a registry from DefaultTemplates.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultTemplates()...)
	if err != nil {
		panic("permission: invalid built-in catalog: " + err.Error())
	}
	return r
}
