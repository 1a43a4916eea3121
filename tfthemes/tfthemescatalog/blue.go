package tfthemescatalog

var Blue = newTheme(0, "Blue", palette{
	Primary:    "#3399cc",
	Fill:       "#ffffff",
	Ink:        "#333333",
	Frame:      "#aaaaaa",
	Background: "#ffffff",
})
