// Package validate checks a generated application workspace for structural
// problems before it is exported or deployed.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	projfs "github.com/SchmitzHorst/ai-agent-service/fs"
	"github.com/SchmitzHorst/ai-agent-service/utils"
	"github.com/spf13/afero"
)

var requiredFiles = []string{
	"backend/pom.xml",
	"backend/src/main/java",
	"backend/src/main/resources/application.properties",
	"frontend/package.json",
	"frontend/src/app",
	"docker-compose.prod.yml",
	".env.example",
}

// Result collects validation errors and warnings. Errors block the
// pipeline, warnings are reported but do not.
type Result struct {
	Errors   []string
	Warnings []string
}

func (r *Result) AddError(msg string)   { r.Errors = append(r.Errors, msg) }
func (r *Result) AddWarning(msg string) { r.Warnings = append(r.Warnings, msg) }
func (r *Result) HasErrors() bool       { return len(r.Errors) > 0 }
func (r *Result) IsValid() bool         { return len(r.Errors) == 0 }

func (r *Result) String() string {
	var b strings.Builder
	if len(r.Errors) > 0 {
		b.WriteString("Errors:\n")
		for _, e := range r.Errors {
			b.WriteString("  - " + e + "\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			b.WriteString("  - " + w + "\n")
		}
	}
	if len(r.Errors) == 0 && len(r.Warnings) == 0 {
		b.WriteString("No issues found\n")
	}
	return b.String()
}

// App validates the generated application in the given workspace.
func App(fsys *projfs.FileSystem) *Result {
	result := &Result{}

	checkRequiredFiles(fsys, result)
	checkJavaFiles(fsys, result)
	checkTypeScriptFiles(fsys, result)
	checkCompose(fsys, result)

	return result
}

func checkRequiredFiles(fsys *projfs.FileSystem, result *Result) {
	for _, file := range requiredFiles {
		if !fsys.FileExists(file) {
			result.AddError("Required file missing: " + file)
		}
	}
}

func checkJavaFiles(fsys *projfs.FileSystem, result *Result) {
	javaDir := "backend/src/main/java"
	if !fsys.IsDir(javaDir) {
		return
	}

	err := afero.Walk(fsys.Fs, javaDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".java") {
			return nil
		}
		checkJavaFile(fsys, path, result)
		return nil
	})
	if err != nil {
		result.AddError(fmt.Sprintf("Failed to validate Java files: %v", err))
	}
}

func checkJavaFile(fsys *projfs.FileSystem, path string, result *Result) {
	content, err := fsys.ReadFile(path)
	if err != nil {
		result.AddError(fmt.Sprintf("Failed to validate %s: %v", filepath.Base(path), err))
		return
	}
	fileName := filepath.Base(path)

	if !strings.Contains(content, "package ") {
		result.AddError(fileName + ": Missing package declaration")
	}
	if strings.Contains(content, "```") {
		result.AddError(fileName + ": Contains markdown backticks")
	}
	if !strings.Contains(content, "class ") && !strings.Contains(content, "interface ") {
		result.AddError(fileName + ": Missing class/interface declaration")
	}
	if strings.Count(content, "{") != strings.Count(content, "}") {
		result.AddError(fileName + ": Mismatched braces")
	}
	if strings.Contains(content, "import javax.persistence") {
		result.AddWarning(fileName + ": Uses old javax.persistence (should be jakarta.persistence)")
	}
	if strings.Contains(content, "TODO") || strings.Contains(content, "FIXME") {
		result.AddWarning(fileName + ": Contains TODO/FIXME comments")
	}

	if strings.HasSuffix(fileName, "Controller.java") {
		checkControllerMethods(fsys, path, content, fileName, result)
	}
}

// checkControllerMethods cross-references controller accessor calls against
// the entity's declared fields.
func checkControllerMethods(fsys *projfs.FileSystem, path, content, fileName string, result *Result) {
	entityName := strings.TrimSuffix(fileName, "Controller.java")
	entityPath := filepath.ToSlash(filepath.Join(filepath.Dir(filepath.Dir(path)), "model", entityName+".java"))

	entityContent, err := fsys.ReadFile(entityPath)
	if err != nil {
		return
	}

	if strings.Contains(content, "getDescription()") && !strings.Contains(entityContent, "String description") {
		result.AddError(fileName + ": Calls getDescription() but field doesn't exist in " + entityName)
	}
	if strings.Contains(content, "isCompleted()") && strings.Contains(entityContent, "Boolean completed") {
		result.AddError(fileName + ": Uses isCompleted() for Boolean field (should be getCompleted())")
	}
}

func checkTypeScriptFiles(fsys *projfs.FileSystem, result *Result) {
	tsDir := "frontend/src/app"
	if !fsys.IsDir(tsDir) {
		return
	}

	err := afero.Walk(fsys.Fs, tsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".ts") {
			return nil
		}
		checkTypeScriptFile(fsys, path, result)
		return nil
	})
	if err != nil {
		result.AddError(fmt.Sprintf("Failed to validate TypeScript files: %v", err))
	}
}

func checkTypeScriptFile(fsys *projfs.FileSystem, path string, result *Result) {
	content, err := fsys.ReadFile(path)
	if err != nil {
		result.AddError(fmt.Sprintf("Failed to validate %s: %v", filepath.Base(path), err))
		return
	}
	fileName := filepath.Base(path)

	// Generic example components the model sometimes invents.
	if strings.Contains(fileName, "item-list") || strings.Contains(content, "ItemListComponent") ||
		strings.Contains(content, "ItemService") || strings.Contains(fileName, "item.component") {
		result.AddError(fileName + ": Generic example component detected - should be entity-specific")
		return
	}

	if strings.Contains(content, "```") {
		result.AddError(fileName + ": Contains markdown backticks")
	}
	if strings.Count(content, "{") != strings.Count(content, "}") {
		result.AddError(fileName + ": Mismatched braces")
	}

	if strings.HasSuffix(fileName, ".component.ts") {
		checkComponent(content, fileName, result)
	}
	if strings.HasSuffix(fileName, ".service.ts") {
		if !strings.Contains(content, "@Injectable") {
			result.AddError(fileName + ": Missing @Injectable decorator")
		}
	}
}

func checkComponent(content, fileName string, result *Result) {
	if !strings.Contains(content, "@Component") {
		result.AddError(fileName + ": Missing @Component decorator")
	}

	baseName := strings.TrimSuffix(fileName, ".component.ts")
	expectedClassName := utils.KebabToPascalCase(baseName) + "Component"
	if !strings.Contains(content, "export class "+expectedClassName) {
		result.AddError(fileName + ": Component class name doesn't match file name (expected: " + expectedClassName + ")")
	}

	expectedTemplate := "./" + strings.TrimSuffix(fileName, ".ts") + ".html"
	if !strings.Contains(content, "templateUrl: '"+expectedTemplate+"'") &&
		!strings.Contains(content, "templateUrl: \""+expectedTemplate+"\"") {
		result.AddError(fileName + ": templateUrl doesn't match file name (expected: " + expectedTemplate + ")")
	}
}

func checkCompose(fsys *projfs.FileSystem, result *Result) {
	content, err := fsys.ReadFile("docker-compose.prod.yml")
	if err != nil {
		return
	}
	if strings.Contains(content, "traefik:") {
		result.AddWarning("docker-compose.prod.yml contains Traefik (should use external)")
	}
	if !strings.Contains(content, "external: true") {
		result.AddWarning("docker-compose.prod.yml network might not be external")
	}
}
