// Package scaffold renders the embedded plugin project template. Path
// segments and .tmpl files are executed with text/template against a
// project.Context; every other file is copied byte for byte so frontend and CI
// sources keep their own brace syntax.
package scaffold
