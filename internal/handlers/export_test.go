package handlers

// GenerateSlug exposes generateSlug to the external handlers_test package.
var GenerateSlug = generateSlug
