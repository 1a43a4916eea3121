package tfthemescatalog

var Grey = newTheme(1, "Grey", palette{
	Primary:    "#888888",
	Fill:       "#f7f7f7",
	Ink:        "#222222",
	Frame:      "#bbbbbb",
	Background: "transparent",
})
