package service

import (
	"landing-pages-backend/internal/models"
	"landing-pages-backend/pkg/utils"
)

// ExpandCombinations builds the full services × locations cross-product,
// iterating services in the outer loop and locations in the inner loop.
func ExpandCombinations(services []models.Service, locations []models.Location) []models.Combination {
	combinations := make([]models.Combination, 0, len(services)*len(locations))

	for _, service := range services {
		serviceSlug := utils.GenerateSlug(service.Name)
		for _, location := range locations {
			combinations = append(combinations, models.Combination{
				ServiceName:  service.Name,
				ServiceSlug:  serviceSlug,
				ServiceDesc:  service.Description,
				LocationName: location.LocationName,
				LocationSlug: utils.GenerateSlug(location.LocationName),
				CountyName:   location.CountyName,
				CountySlug:   utils.GenerateSlug(location.CountyName),
				Municipality: location.Municipality,
				AreaCodes:    location.AreaCodes,
			})
		}
	}

	return combinations
}

// BuildServiceHierarchy groups child services under their top-level parent.
// Children whose parent is not a known top-level service are left out.
// Groups keep the dataset order of their parents.
func BuildServiceHierarchy(services []models.Service) []models.ServiceGroup {
	groups := make([]models.ServiceGroup, 0)
	positions := make(map[string]int)

	for _, service := range services {
		if !service.IsTopLevel {
			continue
		}
		if _, exists := positions[service.Name]; exists {
			continue
		}
		positions[service.Name] = len(groups)
		groups = append(groups, models.ServiceGroup{Name: service.Name, Children: []models.ChildService{}})
	}

	for _, service := range services {
		position, ok := positions[service.Parent]
		if !ok {
			continue
		}
		groups[position].Children = append(groups[position].Children, models.ChildService{
			Name:        service.Name,
			Slug:        utils.GenerateSlug(service.Name),
			Description: service.Description,
		})
	}

	return groups
}

// HierarchyMap indexes groups by parent name.
func HierarchyMap(groups []models.ServiceGroup) map[string][]models.ChildService {
	result := make(map[string][]models.ChildService, len(groups))
	for _, group := range groups {
		result[group.Name] = group.Children
	}
	return result
}
