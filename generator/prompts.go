package generator

import (
	"fmt"
	"strings"

	"github.com/SchmitzHorst/ai-agent-service/requirements"
	"github.com/SchmitzHorst/ai-agent-service/utils"
)

func entityPrompt(entity requirements.EntitySpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a Spring Boot 3.x JPA Entity class for %s. ", entity.Name)
	if entity.Description != "" {
		b.WriteString(entity.Description + ". ")
	}
	b.WriteString("IMPORTANT: Use jakarta.persistence imports (NOT javax.persistence). ")
	b.WriteString("Include: @Entity, @Id, @GeneratedValue(strategy = GenerationType.IDENTITY). ")
	b.WriteString("Package: com.example.app.model. ")

	if len(entity.Fields) > 0 {
		b.WriteString("Fields: ")
		for _, field := range entity.Fields {
			requiredNote := "optional"
			if field.Required {
				requiredNote = "required, use @Column(nullable=false)"
			}
			fmt.Fprintf(&b, "%s (%s, %s), ", field.Name, field.Type, requiredNote)
		}
	}

	b.WriteString("Include empty constructor and getters/setters for all fields. ")
	b.WriteString("Only return the complete Java code, no explanations, no markdown.")

	return b.String()
}

func repositoryPrompt(entity requirements.EntitySpec) string {
	return fmt.Sprintf(
		"Generate a Spring Data JPA Repository interface for entity %s. "+
			"IMPORTANT: Import from com.example.app.model.%s (NOT entity package). "+
			"Use JpaRepository<%s, Long>. "+
			"Add @Repository annotation. "+
			"Package: com.example.app.repository. "+
			"Only return the complete Java code, no explanations, no markdown.",
		entity.Name, entity.Name, entity.Name,
	)
}

func controllerPrompt(entity requirements.EntitySpec) string {
	var fieldList strings.Builder
	for _, field := range entity.Fields {
		fmt.Fprintf(&fieldList, "- %s (%s)\n", field.Name, field.Type)
	}
	lower := strings.ToLower(entity.Name)

	return fmt.Sprintf(
		"Generate a Spring Boot REST Controller for entity %s. "+
			"IMPORTANT REQUIREMENTS:\n"+
			"1. Import from com.example.app.model.%s (NOT entity package)\n"+
			"2. Import repository from com.example.app.repository.%sRepository\n"+
			"3. Inject %sRepository directly (NO Service layer)\n"+
			"4. Use @Autowired for repository\n\n"+
			"ENTITY FIELDS (use ONLY these fields in update method):\n"+
			"%s\n"+
			"CRUD ENDPOINTS:\n"+
			"- GET /api/%ss (findAll)\n"+
			"- GET /api/%ss/{id} (findById with Optional)\n"+
			"- POST /api/%ss (save)\n"+
			"- PUT /api/%ss/{id} (update - ONLY update fields that exist in the entity above!)\n"+
			"- DELETE /api/%ss/{id} (delete)\n\n"+
			"CRITICAL: In the PUT method, only call setter methods that correspond to the fields listed above.\n"+
			"For Boolean fields, use get%s() NOT is%s().\n"+
			"Do NOT invent fields like 'description' if they don't exist.\n\n"+
			"Use @RestController, @RequestMapping, ResponseEntity, Optional.\n"+
			"Package: com.example.app.controller.\n"+
			"Only return complete Java code, no explanations, no markdown.",
		entity.Name, entity.Name, entity.Name, entity.Name,
		fieldList.String(),
		lower, lower, lower, lower, lower,
		entity.Name, entity.Name,
	)
}

func componentPrompt(entity requirements.EntitySpec) string {
	componentName := utils.ToKebabCase(entity.Name) + "-list"
	className := entity.Name + "ListComponent"

	var b strings.Builder
	fmt.Fprintf(&b, "CRITICAL: Generate COMPLETE component files for %s entity.\n", entity.Name)
	b.WriteString("You will generate TWO files in one response:\n")
	b.WriteString("1. TypeScript component file\n")
	b.WriteString("2. HTML template file\n\n")

	fmt.Fprintf(&b, "=== FILE 1: TypeScript Component ===\nFilename: %s.component.ts\n\n", componentName)
	fmt.Fprintf(&b, "It must import CommonModule, FormsModule and %sService from '../../services/%s.service'.\n", entity.Name, utils.ToKebabCase(entity.Name))

	fmt.Fprintf(&b, "Define this interface:\nexport interface %s {\n  id?: number;\n", entity.Name)
	for _, field := range entity.Fields {
		fmt.Fprintf(&b, "  %s: %s;\n", field.Name, mapJavaTypeToTypeScript(field.Type))
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "The component must be standalone with selector 'app-%s' and templateUrl './%s.component.html'.\n", componentName, componentName)
	fmt.Fprintf(&b, "Class %s implements OnInit with: a list of items, selectedItem, isEditing flag, "+
		"loadAll(), selectForEdit(item), save() (create or update via the service), delete(id) with confirm, reset().\n\n", className)

	fmt.Fprintf(&b, "=== FILE 2: HTML Template ===\nFilename: %s.component.html\n\n", componentName)
	b.WriteString("Generate HTML that uses:\n")
	b.WriteString("- *ngFor=\"let item of items\"\n")
	b.WriteString("- (click)=\"selectForEdit(item)\"\n")
	b.WriteString("- (click)=\"delete(item.id)\"\n")
	b.WriteString("- [(ngModel)]=\"selectedItem.FIELD\"\n")
	b.WriteString("- (ngSubmit)=\"save()\"\n")
	b.WriteString("- (click)=\"reset()\"\n")
	b.WriteString("Use Bootstrap 5 classes for styling.\n\n")

	b.WriteString("Return BOTH files with clear separators:\n")
	b.WriteString("=== TYPESCRIPT ===\n[typescript code here]\n=== HTML ===\n[html code here]\n\n")
	b.WriteString("NO markdown backticks. NO explanations.")

	return b.String()
}

func templatePrompt(entity requirements.EntitySpec) string {
	var fieldNames strings.Builder
	for _, field := range entity.Fields {
		fieldNames.WriteString(field.Name + ", ")
	}

	return fmt.Sprintf(
		"Generate an Angular HTML template for %s component. "+
			"Fields: %s. "+
			"Include: "+
			"- Bootstrap 5 table showing all items. "+
			"- Form for creating/editing with [(ngModel)]. "+
			"- Edit and Delete buttons. "+
			"Only return HTML, no markdown backticks, no explanations.",
		entity.Name, fieldNames.String(),
	)
}

func servicePrompt(entity requirements.EntitySpec) string {
	return fmt.Sprintf(
		"Generate an Angular service for %s. "+
			"EXACT CLASS NAME: %sService. "+
			"Filename: %s.service.ts. "+
			"Include: "+
			"- @Injectable with providedIn: 'root'. "+
			"- HttpClient in constructor. "+
			"- Methods: getAll(), getById(id), create(item), update(id, item), delete(id). "+
			"- API base URL: /api/%ss. "+
			"- Return Observable for each method. "+
			"Only return TypeScript code, no markdown backticks, no explanations.",
		entity.Name, entity.Name, utils.ToKebabCase(entity.Name), strings.ToLower(entity.Name),
	)
}

func readmePrompt(reqs *requirements.AppRequirements) string {
	return fmt.Sprintf(
		"Generate a README.md for an application named %q. Description: %s. "+
			"Entities: %s. The app has a Spring Boot backend and an Angular frontend, "+
			"started with docker compose. Cover purpose, stack, local setup and the "+
			"available REST endpoints. Only return markdown content, no surrounding code fences.",
		reqs.AppName, reqs.Description, entityNames(reqs),
	)
}

func gitignorePrompt(reqs *requirements.AppRequirements) string {
	return fmt.Sprintf(
		"Generate a .gitignore for an application with a Spring Boot (Maven) backend "+
			"and an Angular frontend. App name: %s. "+
			"Only return the .gitignore content, no explanations, no markdown.",
		reqs.AppName,
	)
}

func dockerfilePrompt(reqs *requirements.AppRequirements) string {
	return fmt.Sprintf(
		"Generate a multi-stage Dockerfile for the Spring Boot backend of the %s application. "+
			"Build with Maven, run on a slim JRE base image, expose port 8080. "+
			"Only return the Dockerfile content, no explanations, no markdown.",
		reqs.AppName,
	)
}

func entityNames(reqs *requirements.AppRequirements) string {
	names := make([]string, 0, len(reqs.Entities))
	for _, e := range reqs.Entities {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}

func mapJavaTypeToTypeScript(javaType string) string {
	switch javaType {
	case "String", "LocalDate", "LocalDateTime":
		return "string"
	case "Integer", "Long", "Double", "Float", "BigDecimal":
		return "number"
	case "Boolean":
		return "boolean"
	default:
		return "any"
	}
}

// RoutesSource builds app.routes.ts deterministically from the entity list.
func RoutesSource(entities []requirements.EntitySpec) string {
	var b strings.Builder
	b.WriteString("import { Routes } from '@angular/router';\n")
	b.WriteString("import { HomeComponent } from './components/home/home.component';\n")
	for _, entity := range entities {
		kebab := utils.ToKebabCase(entity.Name)
		fmt.Fprintf(&b, "import { %sListComponent } from './components/%s-list/%s-list.component';\n", entity.Name, kebab, kebab)
	}

	b.WriteString("\nexport const routes: Routes = [\n")
	b.WriteString("  { path: '', redirectTo: '/home', pathMatch: 'full' },\n")
	b.WriteString("  { path: 'home', component: HomeComponent },\n")
	for _, entity := range entities {
		kebab := utils.ToKebabCase(entity.Name)
		fmt.Fprintf(&b, "  { path: '%ss', component: %sListComponent },\n", kebab, entity.Name)
	}
	b.WriteString("];\n")
	return b.String()
}

// HomeComponentSources builds the landing page component deterministically.
func HomeComponentSources(appName string, entities []requirements.EntitySpec) (ts string, html string) {
	var t strings.Builder
	t.WriteString("import { Component } from '@angular/core';\n")
	t.WriteString("import { RouterLink } from '@angular/router';\n\n")
	t.WriteString("@Component({\n")
	t.WriteString("  selector: 'app-home',\n")
	t.WriteString("  standalone: true,\n")
	t.WriteString("  imports: [RouterLink],\n")
	t.WriteString("  templateUrl: './home.component.html'\n")
	t.WriteString("})\n")
	t.WriteString("export class HomeComponent {\n")
	fmt.Fprintf(&t, "  appName = '%s';\n", appName)
	t.WriteString("}\n")

	var h strings.Builder
	h.WriteString("<div class=\"container mt-5\">\n")
	h.WriteString("  <div class=\"text-center\">\n")
	h.WriteString("    <h1>Welcome to {{ appName }}</h1>\n")
	h.WriteString("    <p class=\"lead\">Manage your data</p>\n")
	h.WriteString("  </div>\n\n")
	h.WriteString("  <div class=\"row mt-5\">\n")
	for _, entity := range entities {
		kebab := utils.ToKebabCase(entity.Name)
		description := entity.Description
		if description == "" {
			description = "Manage " + entity.Name + "s"
		}
		h.WriteString("    <div class=\"col-md-4\">\n")
		h.WriteString("      <div class=\"card\">\n")
		h.WriteString("        <div class=\"card-body\">\n")
		fmt.Fprintf(&h, "          <h5 class=\"card-title\">%ss</h5>\n", entity.Name)
		fmt.Fprintf(&h, "          <p class=\"card-text\">%s</p>\n", description)
		fmt.Fprintf(&h, "          <a routerLink=\"/%ss\" class=\"btn btn-primary\">Open</a>\n", kebab)
		h.WriteString("        </div>\n")
		h.WriteString("      </div>\n")
		h.WriteString("    </div>\n")
	}
	h.WriteString("  </div>\n")
	h.WriteString("</div>\n")

	return t.String(), h.String()
}
