package models

import "strings"

// Service is one row of the services dataset.
type Service struct {
	Name        string `json:"name" validate:"required,slugifiable,no_html"`
	Description string `json:"description"`
	Parent      string `json:"parent,omitempty"`
	IsTopLevel  bool   `json:"is_top_level"`
}

// Location is one row of the locations dataset.
type Location struct {
	LocationName string `json:"location_name" validate:"required,slugifiable,no_html"`
	CountyName   string `json:"county_name" validate:"required,slugifiable,no_html"`
	Municipality string `json:"municipality"`
	AreaCodes    string `json:"area_codes"`
}

// Combination is a service offered in a location, one landing page each.
type Combination struct {
	ServiceName  string `json:"service_name"`
	ServiceSlug  string `json:"service_slug"`
	ServiceDesc  string `json:"service_desc"`
	LocationName string `json:"location_name"`
	LocationSlug string `json:"location_slug"`
	CountyName   string `json:"county_name"`
	CountySlug   string `json:"county_slug"`
	Municipality string `json:"municipality"`
	AreaCodes    string `json:"area_codes"`
}

// Path returns the landing page path of the combination.
func (c Combination) Path() string {
	return "/" + c.CountySlug + "-county/" + c.LocationSlug + "/" + c.ServiceSlug
}

// ChildService is the navigation summary of a service nested under a parent.
type ChildService struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// ServiceGroup is a top-level service together with its children, in
// dataset order.
type ServiceGroup struct {
	Name     string         `json:"name"`
	Children []ChildService `json:"children"`
}

// Record keeps a free-form CSV row with its original column order.
type Record struct {
	Columns []string          `json:"columns"`
	Values  map[string]string `json:"values"`
}

// Get returns the value of a column, or an empty string if the column is
// absent.
func (r Record) Get(column string) string {
	if r.Values == nil {
		return ""
	}
	return r.Values[column]
}

// Job is a completed project shown in the portfolio listing.
type Job struct {
	Title  string   `json:"title"`
	Slug   string   `json:"slug"`
	Photos []string `json:"photos"`
	Fields Record   `json:"fields"`
}

// Path returns the detail page path of the job.
func (j Job) Path() string {
	return "/job/" + j.Slug
}

// CoverPhoto returns the first photo of the job, if any.
func (j Job) CoverPhoto() string {
	if len(j.Photos) == 0 {
		return ""
	}
	return j.Photos[0]
}

// Review is passed through to presentation untouched.
type Review struct {
	Fields Record `json:"fields"`
}

// ContactSubmission holds the echoed contact form. Nothing is validated or
// stored.
type ContactSubmission struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Email     string `form:"email"`
	Phone     string `form:"phone"`
	Message   string `form:"message"`
}

// FullName joins first and last name, skipping blanks.
func (s ContactSubmission) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
}

// StaticPage describes an allow-listed content page.
type StaticPage struct {
	Slug        string
	Title       string
	Description string
}

// Path returns the page path.
func (p StaticPage) Path() string {
	return "/" + p.Slug
}
