package domain

// JobSeekerDashboard summarises a job seeker's activity.
type JobSeekerDashboard struct {
	TotalApplications    int            `json:"total_applications"`
	ApplicationsByStatus map[string]int `json:"applications_by_status"`
	SavedJobs            int            `json:"saved_jobs"`
	Documents            int            `json:"documents"`
	ProfileCompleteness  int            `json:"profile_completeness"`
}

// EmployerDashboard summarises an employer's postings and the applications
// they received.
type EmployerDashboard struct {
	TotalJobs            int            `json:"total_jobs"`
	ActiveJobs           int            `json:"active_jobs"`
	TotalViews           int            `json:"total_views"`
	TotalApplications    int            `json:"total_applications"`
	ApplicationsByStatus map[string]int `json:"applications_by_status"`
}

// StatusHistogram returns a map with every application status set to zero.
func StatusHistogram() map[string]int {
	h := make(map[string]int, len(ApplicationStatuses))
	for _, s := range ApplicationStatuses {
		h[string(s)] = 0
	}
	return h
}

// EmptyJobSeekerDashboard is the all-zero dashboard.
func EmptyJobSeekerDashboard() JobSeekerDashboard {
	return JobSeekerDashboard{ApplicationsByStatus: StatusHistogram()}
}

// EmptyEmployerDashboard is the all-zero dashboard.
func EmptyEmployerDashboard() EmployerDashboard {
	return EmployerDashboard{ApplicationsByStatus: StatusHistogram()}
}
