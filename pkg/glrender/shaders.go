package glrender

// The meadow shader. Uniform names match the scene package constants.
const vertexShader = `
#version 410 core
layout(location = 0) in vec3 a_position;
layout(location = 1) in vec3 a_normal;
layout(location = 2) in vec2 a_uv;

uniform mat4 u_model;
uniform mat4 u_view;
uniform mat4 u_proj;

out vec3 v_normal;
out vec2 v_uv;

void main() {
    v_normal = mat3(u_model) * a_normal;
    v_uv = a_uv;
    gl_Position = u_proj * u_view * u_model * vec4(a_position, 1.0);
}
` + "\x00"

const fragmentShader = `
#version 410 core
in vec3 v_normal;
in vec2 v_uv;

uniform vec3 u_color1;
uniform vec3 u_color2;
uniform int u_is_ground;
uniform int u_use_texture;
uniform int u_alpha_cutout;
uniform sampler2D u_diffuse;

out vec4 frag_color;

const vec3 LIGHT_DIR = normalize(vec3(0.5, 1.0, 0.3));

void main() {
    vec3 n = normalize(v_normal);
    float g = u_is_ground != 0 ? v_uv.y : 0.5 + 0.5 * n.y;
    vec3 base = mix(u_color1, u_color2, g);

    if (u_use_texture != 0) {
        vec4 texel = texture(u_diffuse, v_uv);
        if (u_alpha_cutout != 0 && texel.a < 0.5) {
            discard;
        }
        base *= texel.rgb;
    }

    float light = u_is_ground != 0 ? 1.0 : 0.35 + 0.65 * max(dot(n, LIGHT_DIR), 0.0);
    frag_color = vec4(base * light, 1.0);
}
` + "\x00"
