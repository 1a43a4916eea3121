package tfthemescatalog

var Dark = newTheme(2, "Dark", palette{
	Primary:    "#66ccff",
	Fill:       "#1e1e1e",
	Ink:        "#eeeeee",
	Frame:      "#666666",
	Background: "#121212",
})
