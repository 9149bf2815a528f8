package webui

import "github.com/chriskillpack/sceneui/describer"

// Unknown is the table key used for any category outside describer.Categories.
const Unknown = "unknown"

var table = map[string][]Fragment{
	describer.CategoryOutside: {
		{Title, "Outside Activities"},
		{Button, "Start Hiking"},
		{Button, "Start Paddleboarding"},
		{Paragraph, "Enjoy the beautiful scenery around the lake."},
	},
	describer.CategoryInside: {
		{Title, "Indoor Activities"},
		{Button, "Start Reading"},
		{Toggle, "Lights On/Off"},
		{Paragraph, "Relax and enjoy your time indoors."},
	},
	describer.CategoryWorking: {
		{Title, "Work Environment"},
		{Button, "Start Working"},
		{Slider, "Adjust Brightness"},
		{Dropdown, "<option>Task 1</option><option>Task 2</option>"},
		{Paragraph, "Stay focused and productive."},
	},
	describer.CategoryActivity: {
		{Title, "Activity Zone"},
		{Button, "Join Activity"},
		{Dropdown, "<option>Activity 1</option><option>Activity 2</option>"},
		{Scroll, "Scroll to see more activities"},
	},
	describer.CategoryDesk: {
		{Title, "Desk Setup"},
		{Button, "Organize Desk"},
		{Toggle, "Lamp On/Off"},
		{Paragraph, "Keep your desk neat and tidy."},
	},
	describer.CategoryGallery: {
		{Title, "Gallery View"},
		{Scroll, "Browse through the gallery"},
		{Button, "View Art"},
		{Paragraph, "Enjoy the artistic creations."},
	},
	Unknown: {},
}

// Fragments returns the ordered fragments for category. Categories missing
// from the table get the (empty) Unknown entry. The returned slice must not
// be modified.
func Fragments(category string) []Fragment {
	if f, ok := table[category]; ok {
		return f
	}
	return table[Unknown]
}
