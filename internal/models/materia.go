package models

type MateriaResponse struct {
	IDMateria          int64           `json:"idMateria"`
	NombreMateria      string          `json:"nombreMateria"`
	Usuario            UsuarioResponse `json:"usuario"`
	FechaCreacion      string          `json:"fechaCreacion"`
	FechaActualizacion string          `json:"fechaActualizacion,omitempty"`
}

type MateriaRequest struct {
	NombreMateria string `json:"nombreMateria" validate:"required,notblank"`
	IDUsuario     int64  `json:"idUsuario" validate:"required,gt=0"`
}

type MateriaActualizarNombreRequest struct {
	NombreMateria string `json:"nombreMateria" validate:"required,notblank"`
}

type MateriaCambiarUsuarioRequest struct {
	IDUsuario int64 `json:"idUsuario" validate:"required,gt=0"`
}
