package grades

import "github.com/Spok95/safiro-portal/internal/models"

func DemoData() []models.Clase {
	return []models.Clase{
		{ID: "1", Nombre: "Ecuaciones diferenciales", Codigo: "MAT-201", Estudiantes: []models.Estudiante{
			{ID: 1, Nombre: "Ana García", Nota: 4.2},
			{ID: 2, Nombre: "Carlos Pérez", Nota: 3.5},
			{ID: 3, Nombre: "Diana Rodríguez", Nota: 2.8},
			{ID: 4, Nombre: "Eduardo López", Nota: 4.0},
			{ID: 5, Nombre: "Fernanda Cruz", Nota: 3.7},
			{ID: 6, Nombre: "Gabriel Silva", Nota: 2.5},
			{ID: 7, Nombre: "Helena Martínez", Nota: 4.5},
			{ID: 8, Nombre: "Ignacio Torres", Nota: 3.9},
		}},
		{ID: "2", Nombre: "Ecuaciones integrales", Codigo: "MAT-202", Estudiantes: []models.Estudiante{
			{ID: 1, Nombre: "Julia Ramírez", Nota: 4.3},
			{ID: 2, Nombre: "Kevin Mendoza", Nota: 4.0},
			{ID: 3, Nombre: "Laura Gómez", Nota: 2.9},
			{ID: 4, Nombre: "Mario Castro", Nota: 4.2},
			{ID: 5, Nombre: "Natalia Vargas", Nota: 4.5},
			{ID: 6, Nombre: "Oscar Reyes", Nota: 3.8},
			{ID: 7, Nombre: "Patricia Díaz", Nota: 4.1},
			{ID: 8, Nombre: "Ricardo Morales", Nota: 2.7},
		}},
		{ID: "3", Nombre: "Algebra Lineal", Codigo: "MAT-103", Estudiantes: []models.Estudiante{
			{ID: 1, Nombre: "Sara Ortiz", Nota: 4.0},
			{ID: 2, Nombre: "Tomás Ruiz", Nota: 3.6},
			{ID: 3, Nombre: "Valentina Herrera", Nota: 2.6},
			{ID: 4, Nombre: "Walter Campos", Nota: 4.3},
			{ID: 5, Nombre: "Ximena Rojas", Nota: 4.1},
			{ID: 6, Nombre: "Yolanda Soto", Nota: 3.5},
			{ID: 7, Nombre: "Zacarías Flores", Nota: 2.8},
			{ID: 8, Nombre: "Andrea Vega", Nota: 4.4},
		}},
	}
}
