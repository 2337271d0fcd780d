package dto

type MonthBucket struct {
	Label   string `json:"label"`
	Revenue int64  `json:"revenue"`
	Count   int    `json:"count"`
}

type DashboardResponse struct {
	TotalRevenue     int64         `json:"total_revenue"`
	TotalUsers       int64         `json:"total_users"`
	TotalLearners    int64         `json:"total_learners"`
	TotalCourses     int64         `json:"total_courses"`
	TotalChapters    int64         `json:"total_chapters"`
	TotalEnrollments int64         `json:"total_enrollments"`
	TotalCompleted   int64         `json:"total_completed"`
	MonthlyRevenue   []MonthBucket `json:"monthly_revenue"`
}
